package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/bootstrap"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/config"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/handle"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/httpserver"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/logger"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/metrics"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/web"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("server")
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.Build(ctx, cfg, logger.Get())
	if err != nil {
		log.Fatal("bootstrap", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	ui, err := web.New(deps.Service, deps.Sessions, cfg.MaxUploadBytes, logger.Named("web"))
	if err != nil {
		log.Fatal("templates", zap.Error(err))
	}
	api := handle.New(deps.Service, deps.Sessions, cfg.MaxUploadBytes, logger.Named("api"))

	limiter := httpserver.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	r := mux.NewRouter()
	api.Register(r.PathPrefix("/api/v1").Subrouter(), limiter.Middleware)
	ui.Register(r, limiter.Middleware)

	app := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", httpserver.SessionHeader}),
	)(httpserver.Sessions(r))

	root := http.NewServeMux()
	httpserver.Mount(root, deps.Checks)
	root.Handle("/", app)

	var h http.Handler = httpserver.AccessLog(logger.Named("http"))(root)
	if cfg.TrustProxy {
		h = handlers.ProxyHeaders(h)
	}
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	if err := httpserver.Run(ctx, "0.0.0.0:"+cfg.Port, h, log); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}
