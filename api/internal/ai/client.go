package ai

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/metrics"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
)

// Client applies the call policies on top of an Engine: Analyze is strict, SuggestDoctors is
// best effort.
type Client struct {
	engine Engine
	log    *zap.Logger
}

func NewClient(engine Engine, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{engine: engine, log: log.With(zap.String("engine", engine.Name()), zap.String("model", engine.GetModel()))}
}

// Analyze sends one report image to the engine. It makes exactly one attempt.
func (c *Client) Analyze(ctx context.Context, img Image) (report.Analysis, error) {
	start := time.Now()
	a, err := strict(c.engine.Name(), func() (report.Analysis, error) {
		text, err := c.engine.Analyze(ctx, img)
		if err != nil {
			return report.Analysis{}, err
		}
		return DecodeAnalysis(text)
	})
	took := time.Since(start)
	metrics.ObserveAnalysis(c.engine.Name(), outcome(err), took)
	if err != nil {
		c.log.Warn("analysis failed", zap.Error(err), zap.String("outcome", outcome(err)), zap.Duration("took", took))
		return report.Analysis{}, err
	}
	if !a.Consistent() {
		metrics.InconsistentTotal.Inc()
		c.log.Warn("overall result disagrees with parameter statuses",
			zap.String("overallResult", string(a.OverallResult)),
			zap.Int("abnormalParameters", a.AbnormalCount()))
	}
	c.log.Info("analysis done",
		zap.String("testType", a.TestType),
		zap.Int("healthScore", a.HealthScore),
		zap.Int("parameters", len(a.Parameters)),
		zap.Duration("took", took))
	return a, nil
}

// SuggestDoctors returns simulated doctors for specialist near pincode. Any failure yields an
// empty list; the caller shows a map link instead.
func (c *Client) SuggestDoctors(ctx context.Context, specialist, pincode string) []report.Doctor {
	specialist = strings.TrimSpace(specialist)
	failed := false
	docs := bestEffort([]report.Doctor{}, func() ([]report.Doctor, error) {
		text, err := c.engine.SuggestDoctors(ctx, specialist, pincode)
		if err != nil {
			return nil, err
		}
		return DecodeDoctors(text)
	}, func(err error) {
		failed = true
		metrics.DoctorLookupsTotal.WithLabelValues("failed").Inc()
		c.log.Warn("doctor lookup failed", zap.Error(err), zap.String("specialist", specialist), zap.String("pincode", pincode))
	})
	switch {
	case failed:
	case len(docs) > 0:
		metrics.DoctorLookupsTotal.WithLabelValues("ok").Inc()
	default:
		metrics.DoctorLookupsTotal.WithLabelValues("empty").Inc()
	}
	return docs
}
