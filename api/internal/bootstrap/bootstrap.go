// Package bootstrap wires configuration into the engine, history store and session service
// shared by the web server and the bot.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai/gemini"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai/openai"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai/stub"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/config"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/history"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/httpserver"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
)

type Deps struct {
	Engine   ai.Engine
	Service  *app.Service
	Sessions *app.Sessions
	Checks   map[string]httpserver.HealthCheck
	Close    func() error
}

// Engines registers every engine the configuration has credentials for. The stub is always
// available.
func Engines(cfg *config.Config) *ai.Engines {
	reg := ai.NewEngines(stub.New())
	if cfg.GeminiAPIKey != "" {
		reg.Set(gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel))
	}
	if cfg.OpenAIAPIKey != "" {
		reg.Set(openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIURL))
	}
	return reg
}

func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Deps, error) {
	engine, err := Engines(cfg).GetEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := history.Open(ctx, history.Options{
		Backend:   cfg.HistoryBackend,
		Dir:       cfg.HistoryDir,
		DSN:       cfg.DatabaseURL,
		RedisAddr: cfg.RedisAddr,
		RedisDB:   cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	log.Info("history store ready", zap.String("backend", cfg.HistoryBackend))
	if cfg.HistoryBackend == "postgres" {
		log.Info("db connected", zap.String("dsn", config.SafeDSNSummary(cfg.DatabaseURL)))
	}

	client := ai.NewClient(engine, log.Named("ai"))
	svc := app.NewService(client, app.Options{
		AnalysisTimeout: cfg.AnalysisTimeout,
		DoctorTimeout:   cfg.DoctorTimeout,
		Normalize:       cfg.NormalizeImages,
	}, log.Named("app"))
	log.Info("engine selected", zap.String("engine", engine.Name()), zap.String("model", engine.GetModel()))

	return &Deps{
		Engine:  engine,
		Service: svc,
		Sessions: app.NewSessions(store, i18n.Parse(cfg.DefaultLang), log.Named("sessions")).
			WithLimits(cfg.SessionIdleTTL, cfg.MaxSessions),
		Checks: map[string]httpserver.HealthCheck{
			"history": func(ctx context.Context) error { return history.Ping(ctx, store) },
		},
		Close: closeStore,
	}, nil
}
