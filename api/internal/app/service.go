package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/history"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/intake"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/metrics"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
)

type Options struct {
	AnalysisTimeout time.Duration
	DoctorTimeout   time.Duration
	Normalize       bool
}

// Service runs intake, analysis and history for sessions.
type Service struct {
	client *ai.Client
	opts   Options
	log    *zap.Logger
}

func NewService(client *ai.Client, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.AnalysisTimeout <= 0 {
		opts.AnalysisTimeout = 120 * time.Second
	}
	if opts.DoctorTimeout <= 0 {
		opts.DoctorTimeout = 60 * time.Second
	}
	return &Service{client: client, opts: opts, log: log}
}

// Outcome is a successful analysis. Applied is false when the session was reset while the
// call was in flight: the item is in history but the screen was not replaced.
type Outcome struct {
	Analysis report.Analysis
	Item     history.Item
	Applied  bool
}

// Analyze moves sess to Analyzing, reads the upload, calls the service once and records the
// result. A second call while one is in flight fails with ErrBusy. read failures come back as
// *intake.FileReadError, service failures as the ai error taxonomy; neither adds history.
func (s *Service) Analyze(ctx context.Context, sess *Session, read func() (intake.Upload, error)) (Outcome, error) {
	var gen uint64
	if _, err := sess.try(func(st State) (State, error) {
		next, g, err := st.BeginAnalysis()
		gen = g
		return next, err
	}); err != nil {
		return Outcome{}, err
	}
	log := s.log.With(zap.String("session", sess.Key), zap.Uint64("generation", gen))

	up, err := read()
	if err != nil {
		var fre *intake.FileReadError
		if !errors.As(err, &fre) {
			err = &intake.FileReadError{Err: err}
		}
		s.fail(sess, gen, FailureFileRead)
		log.Info("upload unreadable", zap.Error(err))
		return Outcome{}, err
	}
	log.Debug("upload read", zap.String("mime", up.MIME), zap.Int("bytes", up.Size()))
	if s.opts.Normalize {
		up = intake.Normalize(up, log)
	}

	actx, cancel := context.WithTimeout(ctx, s.opts.AnalysisTimeout)
	a, err := s.client.Analyze(actx, up.Image())
	cancel()
	if err != nil {
		s.fail(sess, gen, FailureAnalysis)
		return Outcome{}, err
	}

	// persist even if the requester went away
	item, _ := sess.history.Record(context.WithoutCancel(ctx), a)

	var applied bool
	sess.Apply(func(st State) State {
		next, ok := st.AnalysisSucceeded(gen, a, item.ID)
		applied = ok
		return next
	})
	if !applied {
		log.Info("late analysis recorded without replacing the screen", zap.String("id", item.ID))
	}
	return Outcome{Analysis: a, Item: item, Applied: applied}, nil
}

func (s *Service) fail(sess *Session, gen uint64, f Failure) {
	sess.Apply(func(st State) State {
		next, _ := st.AnalysisFailed(gen, f)
		return next
	})
}

// FindDoctors searches for the recommended specialist near pincode. A pincode with fewer
// than six digits fails with ErrPincodeTooShort and makes no call.
func (s *Service) FindDoctors(ctx context.Context, sess *Session, pincode string) ([]report.Doctor, error) {
	var (
		specialist string
		gen        uint64
		tooShort   bool
	)
	st, err := sess.try(func(st State) (State, error) {
		next, sp, g, err := st.BeginDoctorSearch(pincode)
		specialist, gen = sp, g
		if errors.Is(err, ErrPincodeTooShort) {
			// keep the sanitized input on screen
			tooShort = true
			return next, nil
		}
		return next, err
	})
	if err != nil {
		return nil, err
	}
	if tooShort {
		metrics.DoctorLookupsTotal.WithLabelValues("skipped").Inc()
		return nil, ErrPincodeTooShort
	}

	dctx, cancel := context.WithTimeout(ctx, s.opts.DoctorTimeout)
	docs := s.client.SuggestDoctors(dctx, specialist, st.Pincode)
	cancel()

	sess.Apply(func(cur State) State {
		next, _ := cur.DoctorsFound(gen, st.Pincode, docs)
		return next
	})
	return docs, nil
}

// SelectHistory shows the stored analysis with id.
func (s *Service) SelectHistory(sess *Session, id string) (State, error) {
	a, ok := sess.history.Select(id)
	if !ok {
		return sess.State(), history.ErrNotFound
	}
	return sess.try(func(st State) (State, error) { return st.SelectHistory(id, a) })
}

func (s *Service) Reset(sess *Session) State {
	return sess.Apply(State.Reset)
}

func (s *Service) SetTab(sess *Session, t Tab) State {
	return sess.Apply(func(st State) State { return st.SetTab(t) })
}

func (s *Service) ToggleLang(sess *Session) State {
	return sess.Apply(State.ToggleLang)
}

func (s *Service) SetLang(sess *Session, l i18n.Lang) State {
	return sess.Apply(func(st State) State { return st.SetLang(l) })
}
