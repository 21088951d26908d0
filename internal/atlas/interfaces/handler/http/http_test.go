package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/domain"
	"WorldMap/internal/shared/security"
	"WorldMap/internal/shared/transport"
	transporthttp "WorldMap/internal/shared/transport/http"
	"WorldMap/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type fakeRepo struct {
	mapInfo *domain.MapInfo
	err     error
}

func (r *fakeRepo) LoadMapInfo(ctx context.Context) (*domain.MapInfo, error) {
	return r.mapInfo, r.err
}

func (r *fakeRepo) LoadSettlementInfo(ctx context.Context) (*domain.SettlementInfo, error) {
	return &domain.SettlementInfo{Data: domain.SettlementData{Settlements: []domain.Settlement{
		{MapObjectID: "town", Description: "d"},
	}}}, nil
}

func intPtr(v int) *int { return &v }

func newTestServer(t *testing.T) (*transporthttp.Server, *fakeRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &fakeRepo{mapInfo: &domain.MapInfo{Version: "1", Data: domain.MapData{
		MapObjects: []domain.MapObject{
			{ID: "town", Title: "白石鎮", Coord: domain.Area{AreaStartX: 0, AreaStartY: 0, AreaEndX: 10, AreaEndY: 10}, Level: 0},
			{ID: "port", Title: "港口", Coord: domain.Area{AreaStartX: 20, AreaStartY: 20, AreaEndX: 30, AreaEndY: 30}, Level: 10},
		},
		MapConnections: []domain.MapConnection{
			{StartPoint: domain.Reference("town"), EndPoint: domain.Reference("port"), Level: 2, Cost: intPtr(4)},
		},
	}}}
	svc := app.NewAtlasService(repo, logx.Nop(), app.Options{})
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload err=%v", err)
	}

	s := transporthttp.NewHttpServer(":0", gin.New(), logx.Nop())
	NewHttpHandler(svc, logx.Nop()).RegisterRoutes(s.Group("/api"))
	return s, repo
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, s *transporthttp.Server, method, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("body=%s err=%v", w.Body.String(), err)
	}
	return e
}

func TestMapLayers(t *testing.T) {
	s, _ := newTestServer(t)

	e := decode(t, do(t, s, nethttp.MethodGet, "/api/map", nil))
	if e.Code != transport.OK {
		t.Fatalf("code=%d", e.Code)
	}
	var body struct {
		Objects     map[string][]json.RawMessage `json:"objects"`
		Connections map[string][]struct {
			CurvePoints [][2]float64 `json:"curvePoints"`
			LabelIndex  int          `json:"labelIndex"`
		} `json:"connections"`
	}
	if err := json.Unmarshal(e.Data, &body); err != nil {
		t.Fatalf("data=%s err=%v", e.Data, err)
	}
	if len(body.Objects["0"]) != 1 || len(body.Objects["10"]) != 1 {
		t.Fatalf("objects=%v", body.Objects)
	}
	conn := body.Connections["2"]
	if len(conn) != 1 || len(conn[0].CurvePoints) != 3 || conn[0].LabelIndex != 1 {
		t.Fatalf("connections=%+v", body.Connections)
	}

	e = decode(t, do(t, s, nethttp.MethodGet, "/api/map?zoom=1", nil))
	if strings.Contains(string(e.Data), `"10"`) {
		t.Fatalf("zoom=1 不应包含 level 10: %s", e.Data)
	}

	e = decode(t, do(t, s, nethttp.MethodGet, "/api/map?zoom=abc", nil))
	if e.Code != transport.InvalidParam {
		t.Fatalf("code=%d", e.Code)
	}
}

func TestObject(t *testing.T) {
	s, _ := newTestServer(t)

	e := decode(t, do(t, s, nethttp.MethodGet, "/api/map/objects/town", nil))
	if e.Code != transport.OK || !strings.Contains(string(e.Data), `"anchorXY":{"x":5,"y":5}`) {
		t.Fatalf("e=%+v data=%s", e, e.Data)
	}

	e = decode(t, do(t, s, nethttp.MethodGet, "/api/map/objects/ghost", nil))
	if e.Code != transport.NotFound {
		t.Fatalf("code=%d", e.Code)
	}
}

func TestLocateAndCoord(t *testing.T) {
	s, _ := newTestServer(t)

	// 世界坐标 (5,5) => 地图坐标 (-325, 325)
	e := decode(t, do(t, s, nethttp.MethodGet, "/api/map/coord?x=5&y=5", nil))
	if e.Code != transport.OK || !strings.Contains(string(e.Data), `"map":[-325,325]`) {
		t.Fatalf("coord=%s", e.Data)
	}

	e = decode(t, do(t, s, nethttp.MethodGet, "/api/map/locate?lat=-325.4&lng=325.6", nil))
	if e.Code != transport.OK || !strings.Contains(string(e.Data), `"id":"town"`) {
		t.Fatalf("locate=%s", e.Data)
	}

	e = decode(t, do(t, s, nethttp.MethodGet, "/api/map/locate?lat=x", nil))
	if e.Code != transport.InvalidParam {
		t.Fatalf("code=%d", e.Code)
	}
}

func TestSettlementsAndBBCode(t *testing.T) {
	s, _ := newTestServer(t)

	e := decode(t, do(t, s, nethttp.MethodGet, "/api/settlements", nil))
	if e.Code != transport.OK || !strings.Contains(string(e.Data), `"name":"白石鎮"`) {
		t.Fatalf("settlements=%s", e.Data)
	}

	w := do(t, s, nethttp.MethodGet, "/api/settlements/"+url.PathEscape("白石鎮")+"/bbcode", nil)
	if w.Code != nethttp.StatusOK || !strings.HasPrefix(w.Body.String(), "[div][table") {
		t.Fatalf("bbcode=%s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "&#91;4AP&#93;") {
		t.Fatalf("缺少路线 AP: %s", w.Body.String())
	}

	all := do(t, s, nethttp.MethodGet, "/api/settlements/bbcode", nil)
	if all.Body.String() != w.Body.String() {
		t.Fatalf("只有一个据点时全部输出应与单个一致")
	}

	e = decode(t, do(t, s, nethttp.MethodGet, "/api/settlements/nope/bbcode", nil))
	if e.Code != transport.NotFound {
		t.Fatalf("code=%d", e.Code)
	}
}

func TestReload(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	s, repo := newTestServer(t)

	w := do(t, s, nethttp.MethodPost, "/api/admin/reload", nil)
	if w.Code != nethttp.StatusUnauthorized {
		t.Fatalf("无 token 期望 401, got=%d", w.Code)
	}

	token, err := security.Award(1, security.ScopeAdmin, time.Minute)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	auth := map[string]string{"Authorization": "Bearer " + token}

	e := decode(t, do(t, s, nethttp.MethodPost, "/api/admin/reload", auth))
	if e.Code != transport.OK || !strings.Contains(string(e.Data), `"version":2`) {
		t.Fatalf("reload=%s", e.Data)
	}

	repo.err = domain.ErrDatasetUnavailable
	e = decode(t, do(t, s, nethttp.MethodPost, "/api/admin/reload", auth))
	if e.Code != transport.DataUnavailable {
		t.Fatalf("code=%d", e.Code)
	}
	e = decode(t, do(t, s, nethttp.MethodGet, "/api/map/info", nil))
	if !strings.Contains(string(e.Data), `"version":2`) {
		t.Fatalf("失败后应保留旧快照: %s", e.Data)
	}
}
