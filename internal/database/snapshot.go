package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/SummitSummer/Botishe/internal/domain"
	"github.com/SummitSummer/Botishe/internal/logger"
)

// Service persists the whole order store as a single JSON document. The
// document is rewritten after every mutation and read once at startup;
// durability is best-effort, a failed write never blocks the in-memory state.
type Service interface {
	// Load reads the snapshot. A missing file yields an empty document and
	// nil error; a corrupt file yields an empty document and the decode
	// error so the caller can log it and start fresh.
	Load() (map[string]*domain.Order, error)

	// Save rewrites the snapshot with the given document.
	Save(doc map[string]*domain.Order) error

	Health() map[string]string
	Close() error
}

type document struct {
	Payments map[string]*domain.Order `json:"payments"`
}

type service struct {
	mu   sync.Mutex
	path string
}

func New(path string) Service {
	return &service{path: path}
}

func (s *service) Load() (map[string]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]*domain.Order{}, nil
		}
		return map[string]*domain.Order{}, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return map[string]*domain.Order{}, err
	}
	if doc.Payments == nil {
		doc.Payments = map[string]*domain.Order{}
	}
	return doc.Payments, nil
}

func (s *service) Save(doc map[string]*domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(document{Payments: doc}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *service) Health() map[string]string {
	stats := map[string]string{"path": s.path}

	info, err := os.Stat(s.path)
	if err != nil {
		stats["status"] = "empty"
		return stats
	}
	stats["status"] = "up"
	stats["size_bytes"] = fmt.Sprintf("%d", info.Size())
	return stats
}

func (s *service) Close() error {
	logger.Logger.Info().Str("path", s.path).Msg("snapshot service closed")
	return nil
}
