package ws

import (
	"context"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/interfaces/handler"
	"WorldMap/internal/shared/transport"
	"WorldMap/internal/shared/transport/ws"
	"WorldMap/modules/kit/logx"

	"go.uber.org/zap"
)

const (
	// 推送名
	PushSnapshotUpdated = "snapshot.updated"
	PushMapLayers       = "map.layers"

	connKeyZoom = "zoom"
)

type SubscribeReq struct {
	// Zoom 为 nil 时推送全部分组
	Zoom *int `mapstructure:"zoom"`
}

type WsHandler struct {
	atlas *app.AtlasService
	hub   *ws.Hub
	log   logx.Logger
}

func NewWsHandler(s *app.AtlasService, hub *ws.Hub, l logx.Logger) *WsHandler {
	return &WsHandler{atlas: s, hub: hub, log: l}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	g := r.Group("map")
	g.Handle("subscribe", h.Subscribe)
	g.Handle("layers", h.Layers)
}

// Subscribe 记录连接关心的缩放级别，之后每次数据更新都推送对应图层。
func (h *WsHandler) Subscribe(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	var in SubscribeReq
	if err := ws.Bind(req, &in); err != nil {
		resp.Body.Code = transport.InvalidParam
		resp.Body.Msg = "参数有误"
		return
	}
	if in.Zoom != nil {
		req.Conn.SetProperty(connKeyZoom, *in.Zoom)
	} else {
		req.Conn.RemoveProperty(connKeyZoom)
	}
	req.Conn.SetProperty(PushMapLayers, true)

	transport.SetDataVersion(ctx, h.atlas.Snapshot().Version)
	resp.Body.Code = transport.OK
	resp.Body.Msg = handler.MapLayersView(h.atlas.MapLayers(in.Zoom))
}

func (h *WsHandler) Layers(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	transport.SetDataVersion(ctx, h.atlas.Snapshot().Version)
	resp.Body.Code = transport.OK
	resp.Body.Msg = handler.MapLayersView(h.atlas.MapLayers(zoomOf(req.Conn)))
}

// Notify 挂在 AtlasService.OnReload 上：所有连接收到概况，订阅过的连接再收到图层。
func (h *WsHandler) Notify(ctx context.Context, snap *app.Snapshot) {
	info := app.Summarize(snap)
	n := h.hub.Broadcast(PushSnapshotUpdated, func(ws.WSConn) (any, bool) { return info, true })
	h.hub.Broadcast(PushMapLayers, func(c ws.WSConn) (any, bool) {
		if c.GetProperty(PushMapLayers) == nil {
			return nil, false
		}
		return handler.MapLayersView(h.atlas.MapLayers(zoomOf(c))), true
	})
	h.log.WithContext(ctx).Info("snapshot pushed", zap.Uint64("version", snap.Version), zap.Int("conns", n))
}

func zoomOf(c ws.WSConn) *int {
	z, ok := c.GetProperty(connKeyZoom).(int)
	if !ok {
		return nil
	}
	return &z
}
