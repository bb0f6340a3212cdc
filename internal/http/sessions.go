package httpapi

import (
	"context"
	"log"
	"sync"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/cart"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/catalog"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/storage"
)

// Sessions hands out one cart.Store per profile, created lazily and loaded
// from durable storage on first use. Stores are injected with the shared
// catalog and storage backend, never global.
type Sessions struct {
	catalog   catalog.Accessor
	storage   storage.Store
	keyPrefix string
	logger    *log.Logger

	mu     sync.Mutex
	stores map[string]*cart.Store
}

func NewSessions(cat catalog.Accessor, st storage.Store, keyPrefix string, logger *log.Logger) *Sessions {
	return &Sessions{
		catalog:   cat,
		storage:   st,
		keyPrefix: keyPrefix,
		logger:    logger,
		stores:    make(map[string]*cart.Store),
	}
}

func (s *Sessions) Get(ctx context.Context, profileID string) *cart.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[profileID]; ok {
		return store
	}

	store := cart.NewStore(s.catalog, s.storage, s.keyPrefix+":"+profileID, s.logger)
	store.Load(ctx)
	s.stores[profileID] = store
	return store
}
