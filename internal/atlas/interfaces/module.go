package interfaces

import (
	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/interfaces/handler/http"
	ws2 "WorldMap/internal/atlas/interfaces/handler/ws"
	transporthttp "WorldMap/internal/shared/transport/http"
	"WorldMap/internal/shared/transport/ws"
	"WorldMap/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
}

// New 组装接口层，并把 ws 推送挂到快照更新上。
func New(s *app.AtlasService, hub *ws.Hub, l logx.Logger) *Module {
	m := &Module{
		wsHandler:   ws2.NewWsHandler(s, hub, l),
		httpHandler: http.NewHttpHandler(s, l),
	}
	s.OnReload(m.wsHandler.Notify)
	return m
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
