package services

import (
	"log"
	"sync"

	"github.com/aurelia-jewels/storefront/app/models"
)

// Notifier is the side channel cart and checkout operations report through.
// Operations never surface errors to callers directly; they settle the state
// and push a human-readable notice here.
type Notifier interface {
	Notify(n models.Notice)
}

type LogNotifier struct{}

func (LogNotifier) Notify(n models.Notice) {
	log.Printf("notice [%s] %s: %s", n.Level, n.Title, n.Message)
}

const maxPendingNotices = 32

// BufferNotifier accumulates notices for one browser session until the next
// API response drains them. Oldest notices are dropped past the cap.
type BufferNotifier struct {
	mu      sync.Mutex
	pending []models.Notice
}

func NewBufferNotifier() *BufferNotifier {
	return &BufferNotifier{}
}

func (b *BufferNotifier) Notify(n models.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, n)
	if len(b.pending) > maxPendingNotices {
		b.pending = b.pending[len(b.pending)-maxPendingNotices:]
	}
}

// Drain returns all pending notices and empties the buffer.
func (b *BufferNotifier) Drain() []models.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.pending
	b.pending = nil
	if out == nil {
		out = []models.Notice{}
	}
	return out
}
