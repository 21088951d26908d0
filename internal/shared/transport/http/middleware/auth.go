package middleware

import (
	"net/http"
	"strings"

	"WorldMap/internal/shared/security"
	"WorldMap/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth.claims"

// RequireScope 校验 `Authorization: Bearer <token>`，scope 不符时返回 Unauthorized。
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			transport.SetErrorReason(c.Request.Context(), "missing bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, transport.Fail(transport.Unauthorized, "未授权"))
			return
		}
		claims, err := security.RequireScope(token, scope)
		if err != nil {
			transport.SetErrorReason(c.Request.Context(), err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, transport.Fail(transport.Unauthorized, "未授权"))
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom 取出 RequireScope 写入的 claims。
func ClaimsFrom(c *gin.Context) (*security.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*security.Claims)
	return claims, ok
}
