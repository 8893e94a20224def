// Package history keeps the most recent analyses of one client and persists them on every change.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/metrics"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
)

const Capacity = 10

// Item is one past analysis.
type Item struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Analysis report.Analysis `json:"analysis"`
}

type History struct {
	// saveMu orders writes: each save carries every item pushed before it.
	saveMu sync.Mutex
	mu     sync.Mutex
	ring   *Ring[Item]
	store  Store
	key    string
	log    *zap.Logger

	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// Load reads the persisted list for key once. Anything unreadable yields an empty history.
func Load(ctx context.Context, store Store, key string, log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	h := &History{
		ring:  NewRing[Item](Capacity),
		store: store,
		key:   key,
		log:   log.With(zap.String("historyKey", key)),
		now:   time.Now,
		newID: uuid.NewV7,
	}
	if store == nil {
		return h
	}
	data, err := store.Load(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return h
	case err != nil:
		metrics.HistoryLoadFailuresTotal.Inc()
		h.log.Warn("history load failed, starting empty", zap.Error(err))
		return h
	}
	items, err := decode(data)
	if err != nil {
		metrics.HistoryLoadFailuresTotal.Inc()
		h.log.Warn("history decode failed, starting empty", zap.Error(err))
		return h
	}
	// stored newest first; push oldest first to keep that order
	for i := len(items) - 1; i >= 0; i-- {
		h.ring.Push(items[i])
	}
	return h
}

func decode(data []byte) ([]Item, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if len(items) > Capacity {
		items = items[:Capacity]
	}
	return items, nil
}

// Record prepends a new item for a and persists the list. Concurrent calls persist in push
// order. A persistence failure is logged and returned; the item stays in memory either way.
func (h *History) Record(ctx context.Context, a report.Analysis) (Item, error) {
	id, err := h.newID()
	if err != nil {
		id = uuid.New()
	}
	item := Item{ID: id.String(), Date: h.now().UTC().Truncate(time.Millisecond), Analysis: a}

	h.saveMu.Lock()
	defer h.saveMu.Unlock()

	h.mu.Lock()
	h.ring.Push(item)
	items := h.ring.Items()
	h.mu.Unlock()

	if err := h.persist(ctx, items); err != nil {
		metrics.HistorySaveFailuresTotal.Inc()
		h.log.Error("history save failed", zap.Error(err), zap.String("id", item.ID))
		return item, err
	}
	return item, nil
}

func (h *History) persist(ctx context.Context, items []Item) error {
	if h.store == nil {
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return h.store.Save(ctx, h.key, data)
}

// Items returns the history newest first.
func (h *History) Items() []Item {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ring.Items()
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ring.Len()
}

func (h *History) Find(id string) (Item, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, it := range h.ring.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Select returns the stored analysis for id.
func (h *History) Select(id string) (report.Analysis, bool) {
	it, ok := h.Find(id)
	return it.Analysis, ok
}
