package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/bootstrap"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/config"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/httpserver"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/logger"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/metrics"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/telegram"
)

func main() {
	cfg := config.Load()
	token := cfg.RequireTelegram()
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("bot")
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.Build(ctx, cfg, logger.Get())
	if err != nil {
		log.Fatal("bootstrap", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatal("telegram", zap.Error(err))
	}
	bot.Debug = false

	checks := map[string]telegram.HealthCheck{}
	for name, c := range deps.Checks {
		checks[name] = telegram.HealthCheck(c)
	}
	r := &telegram.Router{
		Bot:       bot,
		Svc:       deps.Service,
		Sessions:  deps.Sessions,
		MaxUpload: cfg.MaxUploadBytes,
		Engine:    deps.Engine.Name() + " " + deps.Engine.GetModel(),
		Checks:    checks,
		Log:       logger.Named("telegram"),
	}

	// DefaultServeMux, because ListenForWebhook registers its handler there
	httpserver.Mount(http.DefaultServeMux, deps.Checks)
	addr := "0.0.0.0:" + cfg.Port

	handle := func(upd tgbotapi.Update) { go r.HandleUpdate(ctx, upd) }
	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		startWebhookMode(ctx, addr, bot, webhookURL, handle, log)
	} else {
		startPollingMode(ctx, addr, bot, handle, log)
	}
}

func startWebhookMode(ctx context.Context, addr string, bot *tgbotapi.BotAPI, baseURL string, handle func(tgbotapi.Update), log *zap.Logger) {
	// secret path derived from the token
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		log.Fatal("webhook", zap.Error(err))
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		log.Fatal("set webhook", zap.Error(err))
	}

	updates := bot.ListenForWebhook(path)
	go func() {
		for upd := range updates {
			handle(upd)
		}
		log.Info("webhook updates channel closed")
	}()

	log.Info("webhook mode", zap.String("path", path))
	if err := httpserver.Run(ctx, addr, http.DefaultServeMux, log); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}

func startPollingMode(ctx context.Context, addr string, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update), log *zap.Logger) {
	// health and metrics only; polling does not need the listener
	go func() {
		if err := httpserver.Run(ctx, addr, http.DefaultServeMux, log); err != nil {
			log.Error("health server", zap.Error(err))
		}
	}()
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		log.Warn("delete webhook", zap.Error(err))
	}
	runPolling(ctx, bot, handle, log)
}

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") {
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

// runPolling long-polls getUpdates with backoff and never exits on API errors.
func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update), log *zap.Logger) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			log.Info("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelayFromError(err), baseDelay), maxDelay)
			log.Warn("polling error", zap.Error(err), zap.Duration("retry_in", d))
			sleep(ctx, d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}
		if len(updates) == 0 {
			sleep(ctx, 200*time.Millisecond)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// shortHash is FNV-1a as 16 hex digits; stable for a token, not a secret by itself.
func shortHash(s string) string {
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}
