package security

import (
	"errors"
	"testing"
	"time"
)

func TestAward_缺少JWT_SECRET应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Award(1, ScopeAdmin, 0); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("期望 ErrJWTSecretMissing, got=%v", err)
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := Award(42, ScopeAdmin, time.Hour)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}

	claims, err := RequireScope(token, ScopeAdmin)
	if err != nil {
		t.Fatalf("RequireScope err=%v", err)
	}
	if claims.Uid != 42 || claims.Scope != ScopeAdmin {
		t.Fatalf("claims=%+v", claims)
	}
}

func TestRequireScope_不匹配(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")
	token, err := Award(1, "viewer", time.Hour)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if _, err = RequireScope(token, ScopeAdmin); !errors.Is(err, ErrScopeMismatch) {
		t.Fatalf("期望 ErrScopeMismatch, got=%v", err)
	}
}

func TestParseToken_换密钥后失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "k1")
	token, err := Award(1, ScopeAdmin, -time.Hour)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	// ttl<=0 取默认值，所以这里不会过期
	if _, err = ParseToken(token); err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}

	t.Setenv("JWT_SECRET", "k2")
	if _, err = ParseToken(token); err == nil {
		t.Fatalf("换密钥后应解析失败")
	}
}
