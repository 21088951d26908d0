package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/infra/notify"
	"WorldMap/internal/atlas/infra/source/provider"
	"WorldMap/internal/atlas/infra/watch"
	"WorldMap/internal/atlas/interfaces"
	"WorldMap/internal/shared/logs"
	"WorldMap/internal/shared/serverconfig"
	transporthttp "WorldMap/internal/shared/transport/http"
	"WorldMap/internal/shared/transport/ws"
	"WorldMap/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "", "配置文件路径，默认向上查找 configs/conf.yml")
	pflag.Parse()

	serverconfig.Load(*cfgPath, func() {
		logs.SetLevel(serverconfig.Conf.Log.Level)
	})
	conf := serverconfig.Conf
	if err := logs.Init("atlas", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.String("source", conf.Atlas.Source), zap.Int("port", conf.HTTPServer.Port))
	if !conf.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf); err != nil {
		logs.Error("atlas exited", zap.Error(err))
		_ = logs.Sync()
		stop()
		os.Exit(1)
	}
}

// run 装配并运行服务，直到 ctx 结束或 HTTP 服务出错；返回前关闭已打开的资源。
func run(ctx context.Context, conf serverconfig.Config) error {
	log := logx.NewZapLogger(logs.Logger())

	dataset, err := provider.Open(ctx, conf)
	if err != nil {
		return fmt.Errorf("open atlas source: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dataset.Close(closeCtx)
	}()

	svc := app.NewAtlasService(dataset.Repo, log.Named("atlas"), app.Options{
		StrictValidation: conf.Atlas.StrictValidation,
		Placeholders: app.Placeholders{
			Settlement: conf.Atlas.Placeholders.Settlement,
			Landmark:   conf.Atlas.Placeholders.Landmark,
			Action:     conf.Atlas.Placeholders.Action,
		},
	})

	hub := ws.NewHub()
	module := interfaces.New(svc, hub, log)

	// 启动时加载失败不退出：保持空快照，等待文件修复或管理接口重载。
	if _, err = svc.Reload(ctx); err != nil {
		logx.ReportSysError(ctx, log, logx.NewSysLog("atlas initial load", err))
	}

	if conf.Atlas.Watch && len(dataset.WatchPaths) != 0 {
		watcher := watch.NewFileWatcher(dataset.WatchPaths, conf.Atlas.WatchDebounce, func(ctx context.Context) {
			if _, err := svc.Reload(ctx); err != nil {
				logx.ReportSysError(ctx, log, logx.NewSysLog("atlas reload on change", err))
			}
		}, log.Named("watch"))
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logs.Error("data watcher stopped", zap.Error(err))
			}
		}()
	}

	if conf.Redis.Addr != "" {
		bus, err := notify.Open(ctx, conf.Redis, log.Named("notify"))
		if err != nil {
			return fmt.Errorf("open reload bus: %w", err)
		}
		defer bus.Close()
		go func() {
			err := bus.Listen(ctx, func(ctx context.Context, ev notify.Event) {
				logs.Info("收到数据发布通知", zap.String("origin", ev.Origin), zap.String("map_version", ev.MapVersion))
				if _, err := svc.Reload(ctx); err != nil {
					logx.ReportSysError(ctx, log, logx.NewSysLog("atlas reload on notify", err))
				}
			})
			if err != nil {
				logs.Error("reload bus stopped", zap.Error(err))
			}
		}()
	}

	router := ws.NewRouter(log)
	module.WsRegister(router)
	logs.Info("ws routes", zap.Strings("routes", router.Routes()))

	host := conf.HTTPServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.HTTPServer.Port)
	server := transporthttp.NewHttpServer(addr, gin.New(), log, transporthttp.WithAllowOrigins(conf.HTTPServer.AllowOrigins...))
	module.HttpRegister(server.Group("/api"))
	server.Engine().GET("/ws", gin.WrapH(ws.NewServer(ctx, router, hub, log, conf.HTTPServer.AllowOrigins...)))

	errCh := make(chan error, 1)
	go func() {
		logs.Info("atlas http server started", zap.String("addr", addr))
		if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("atlas http serve failed: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logs.Error("http shutdown", zap.Error(err))
	}
	return serveErr
}
