package services

import (
	"log"
	"sync"
)

type sessionEngine struct {
	engine   *CartSyncEngine
	notifier *BufferNotifier
}

// EngineRegistry hands out one cart engine per browser session, built
// lazily on first use and dropped on logout or account deletion.
type EngineRegistry struct {
	api CartAPI

	mu      sync.RWMutex
	engines map[string]sessionEngine
}

func NewEngineRegistry(api CartAPI) *EngineRegistry {
	return &EngineRegistry{
		api:     api,
		engines: make(map[string]sessionEngine),
	}
}

// For returns the session's engine and its notice buffer.
func (r *EngineRegistry) For(sessionID string) (*CartSyncEngine, *BufferNotifier) {
	r.mu.RLock()
	se, ok := r.engines[sessionID]
	r.mu.RUnlock()
	if ok {
		return se.engine, se.notifier
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if se, ok := r.engines[sessionID]; ok {
		return se.engine, se.notifier
	}

	notifier := NewBufferNotifier()
	se = sessionEngine{
		engine:   NewCartSyncEngine(r.api, notifier),
		notifier: notifier,
	}
	r.engines[sessionID] = se
	log.Printf("EngineRegistry.For: created cart engine for session %s", sessionID)
	return se.engine, se.notifier
}

// Drop discards a session's engine and any pending notices.
func (r *EngineRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, sessionID)
}
