package repo

import (
	"sort"
	"sync"

	"github.com/SummitSummer/Botishe/internal/database"
	"github.com/SummitSummer/Botishe/internal/domain"
	"github.com/SummitSummer/Botishe/internal/logger"
)

type OrderRepo interface {
	// Put stores the order under key. The order is copied in, so the caller
	// may keep mutating its value without racing the store.
	Put(key string, order *domain.Order)
	// Get resolves key, following the alias index, and returns a copy.
	Get(key string) (*domain.Order, bool)
	// PutAlias makes alias resolve to the record stored under key.
	PutAlias(alias, key string)
	// Scan returns copies of all orders matching the predicate, oldest
	// first.
	Scan(match func(*domain.Order) bool) []*domain.Order
}

type orderRepo struct {
	mu      sync.RWMutex
	orders  map[string]*domain.Order
	aliases map[string]string
	keys    []string // insertion order, for deterministic scans
	snap    database.Service
}

// NewOrderRepo loads the snapshot and builds the in-memory store over it.
// A missing or unreadable snapshot is tolerated: the store starts empty.
func NewOrderRepo(snap database.Service) OrderRepo {
	r := &orderRepo{
		orders:  make(map[string]*domain.Order),
		aliases: make(map[string]string),
		snap:    snap,
	}

	doc, err := snap.Load()
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("order snapshot unreadable, starting empty")
	}
	// The document holds each record under both its local and remote keys;
	// entries whose key differs from the record's LocalID become aliases.
	for key, order := range doc {
		if order == nil {
			continue
		}
		if key == order.LocalID || order.LocalID == "" {
			r.orders[key] = order
			r.keys = append(r.keys, key)
		} else {
			r.aliases[key] = order.LocalID
		}
	}
	sort.Slice(r.keys, func(i, j int) bool {
		a, b := r.orders[r.keys[i]], r.orders[r.keys[j]]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return r.keys[i] < r.keys[j]
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return r
}

func (r *orderRepo) Put(key string, order *domain.Order) {
	cp := *order

	r.mu.Lock()
	if _, exists := r.orders[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.orders[key] = &cp
	r.mu.Unlock()

	r.persist()
}

func (r *orderRepo) Get(key string) (*domain.Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[key]; ok {
		key = target
	}
	order, ok := r.orders[key]
	if !ok {
		return nil, false
	}
	cp := *order
	return &cp, true
}

func (r *orderRepo) PutAlias(alias, key string) {
	if alias == "" || alias == key {
		return
	}

	r.mu.Lock()
	r.aliases[alias] = key
	r.mu.Unlock()

	r.persist()
}

func (r *orderRepo) Scan(match func(*domain.Order) bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Order
	for _, key := range r.keys {
		order := r.orders[key]
		if match(order) {
			cp := *order
			out = append(out, &cp)
		}
	}
	return out
}

// persist rewrites the whole-store snapshot: every record under its local
// key plus one entry per alias. A write failure is logged and swallowed,
// the in-memory mutation stands either way.
func (r *orderRepo) persist() {
	r.mu.RLock()
	doc := make(map[string]*domain.Order, len(r.orders)+len(r.aliases))
	for key, order := range r.orders {
		doc[key] = order
	}
	for alias, key := range r.aliases {
		if order, ok := r.orders[key]; ok {
			doc[alias] = order
		}
	}
	r.mu.RUnlock()

	if err := r.snap.Save(doc); err != nil {
		logger.Logger.Error().Err(err).Msg("order snapshot write failed")
	}
}
