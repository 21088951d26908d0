package http

import (
	"context"
	nethttp "net/http"
	"strconv"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/interfaces/handler"
	"WorldMap/internal/shared/security"
	"WorldMap/internal/shared/transport"
	"WorldMap/internal/shared/transport/http/middleware"
	"WorldMap/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	atlas *app.AtlasService
	log   logx.Logger
}

func NewHttpHandler(s *app.AtlasService, l logx.Logger) *HttpHandler {
	return &HttpHandler{atlas: s, log: l}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	mapGroup := group.Group("/map")
	mapGroup.GET("", h.MapLayers)
	mapGroup.GET("/objects/:id", h.Object)
	mapGroup.GET("/locate", h.Locate)
	mapGroup.GET("/coord", h.Coord)
	mapGroup.GET("/info", h.Info)

	settlementGroup := group.Group("/settlements")
	settlementGroup.GET("", h.Settlements)
	settlementGroup.GET("/bbcode", h.AllBBCode)
	settlementGroup.GET("/:name", h.Settlement)
	settlementGroup.GET("/:name/bbcode", h.BBCode)

	adminGroup := group.Group("/admin", middleware.RequireScope(security.ScopeAdmin))
	adminGroup.POST("/reload", h.Reload)
}

// MapLayers 可选 zoom 参数，带上时只返回该缩放级别可见的分组。
func (h *HttpHandler) MapLayers(c *gin.Context) {
	var zoom *int
	if raw, ok := c.GetQuery("zoom"); ok {
		z, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, transport.InvalidParam, "zoom 参数有误")
			return
		}
		zoom = &z
	}
	h.ok(c, handler.MapLayersView(h.atlas.MapLayers(zoom)))
}

func (h *HttpHandler) Object(c *gin.Context) {
	o, err := h.atlas.FindObject(c.Param("id"))
	if err != nil {
		h.error(c.Request.Context(), c, "atlas find object", err)
		return
	}
	h.ok(c, o)
}

func (h *HttpHandler) Locate(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		h.fail(c, transport.InvalidParam, "lat/lng 参数有误")
		return
	}
	res, err := h.atlas.LocateClick(lat, lng)
	if err != nil {
		h.error(c.Request.Context(), c, "atlas locate", err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) Coord(c *gin.Context) {
	x, err1 := strconv.ParseFloat(c.Query("x"), 64)
	y, err2 := strconv.ParseFloat(c.Query("y"), 64)
	if err1 != nil || err2 != nil {
		h.fail(c, transport.InvalidParam, "x/y 参数有误")
		return
	}
	res, err := h.atlas.Coord(x, y)
	if err != nil {
		h.error(c.Request.Context(), c, "atlas coord", err)
		return
	}
	h.ok(c, res)
}

// Info 返回当前快照概况（版本、数量、数据问题）。
func (h *HttpHandler) Info(c *gin.Context) {
	h.ok(c, h.atlas.Info())
}

func (h *HttpHandler) Settlements(c *gin.Context) {
	h.ok(c, h.atlas.Settlements())
}

func (h *HttpHandler) Settlement(c *gin.Context) {
	v, err := h.atlas.Settlement(c.Param("name"))
	if err != nil {
		h.error(c.Request.Context(), c, "atlas settlement", err)
		return
	}
	h.ok(c, v)
}

// BBCode 直接返回文本，便于复制到论坛。
func (h *HttpHandler) BBCode(c *gin.Context) {
	out, err := h.atlas.SettlementBBCode(c.Param("name"))
	if err != nil {
		h.error(c.Request.Context(), c, "atlas settlement bbcode", err)
		return
	}
	h.text(c, out)
}

func (h *HttpHandler) AllBBCode(c *gin.Context) {
	out, err := h.atlas.AllSettlementsBBCode()
	if err != nil {
		h.error(c.Request.Context(), c, "atlas all bbcode", err)
		return
	}
	h.text(c, out)
}

func (h *HttpHandler) Reload(c *gin.Context) {
	ctx := c.Request.Context()
	snap, err := h.atlas.Reload(ctx)
	if err != nil {
		h.error(ctx, c, "atlas reload", err)
		return
	}
	h.ok(c, app.Summarize(snap))
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	transport.SetDataVersion(c.Request.Context(), h.atlas.Snapshot().Version)
	c.JSON(nethttp.StatusOK, transport.Success(data))
}

func (h *HttpHandler) text(c *gin.Context, s string) {
	transport.SetDataVersion(c.Request.Context(), h.atlas.Snapshot().Version)
	c.String(nethttp.StatusOK, s)
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, transport.Fail(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	code, msg := handler.HandleError(ctx, h.log, action, err)
	h.fail(c, code, msg)
}
