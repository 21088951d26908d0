package ws

import (
	"context"
	"net/http"
	"slices"

	"WorldMap/modules/kit/logx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Server struct {
	ctx      context.Context
	router   *Router
	hub      *Hub
	log      logx.Logger
	upgrader websocket.Upgrader
}

// NewServer 创建 websocket 入口；ctx 结束时所有连接一起关闭。
// allowOrigins 与 HTTP 层的 Cors 使用同一份配置，为空时放行任意来源。
func NewServer(ctx context.Context, r *Router, hub *Hub, l logx.Logger, allowOrigins ...string) *Server {
	return &Server{
		ctx:    ctx,
		router: r,
		hub:    hub,
		log:    l,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowOrigins),
		},
	}
}

// originChecker 校验浏览器带来的 Origin；不带 Origin 的非浏览器客户端直接放行。
func originChecker(allowOrigins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowOrigins) == 0 {
			return true
		}
		return slices.Contains(allowOrigins, origin)
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}

	wsServer := NewWsServer(s.ctx, wsConn, s.log)
	wsServer.Router(s.router)
	s.hub.Add(wsServer)
	wsServer.Run()

	s.log.Info("websocket upgrade success", zap.String("addr", wsServer.Addr()), zap.Int("online", s.hub.Len()))
}
