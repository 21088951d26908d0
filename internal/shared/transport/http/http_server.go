package http

import (
	"context"
	nethttp "net/http"
	"time"

	"WorldMap/internal/shared/transport/http/middleware"
	"WorldMap/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Server struct {
	engine *gin.Engine
	srv    *nethttp.Server
}

type Option func(*options)

type options struct {
	allowOrigins []string
	writeTimeout time.Duration
}

func WithAllowOrigins(origins ...string) Option {
	return func(o *options) { o.allowOrigins = origins }
}

func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger, opts ...Option) *Server {
	o := options{writeTimeout: 15 * time.Second}
	for _, fn := range opts {
		fn(&o)
	}
	if engine == nil {
		engine = gin.New()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	engine.Use(gin.Recovery())
	engine.Use(middleware.Cors(o.allowOrigins...))
	engine.Use(middleware.AccessLog(logger))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		engine: engine,
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      o.writeTimeout,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start 启动 HTTP 服务（阻塞），正常关闭时返回 http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group(path string) *gin.RouterGroup {
	return s.engine.Group(path)
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}

// Registrar 由各业务模块实现，向 /api 分组注册路由。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}
