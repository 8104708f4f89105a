package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/aurelia-jewels/storefront/app/models"
	"github.com/aurelia-jewels/storefront/app/models/other"
)

// CartAPI is the slice of the backend client the engine depends on.
type CartAPI interface {
	FetchCart(ctx context.Context, token string) (other.UpstreamCart, error)
	AddCartLine(ctx context.Context, token, productID string, quantity int) error
	UpdateCartLine(ctx context.Context, token, lineID string, quantity int) error
	DeleteCartLine(ctx context.Context, token, lineID string) error
	ClearCart(ctx context.Context, token string) error
}

// CartSyncEngine owns one browser session's cart state and keeps it
// converged with the upstream cart service. Mutations apply optimistically,
// reconcile with the backend, and either stand, roll back, or trigger a full
// reload depending on the failure.
//
// Every observer reads a snapshot; the state value is replaced whole on each
// mutation, never patched in place. Overlapping mutations on the same line
// are ordered by per-line sequence numbers: a network outcome is only
// applied if it was issued under the line's current sequence, so a slow
// older response can never undo a newer one. Reload and Clear bump an epoch
// that invalidates every in-flight line mutation at once.
type CartSyncEngine struct {
	api      CartAPI
	notifier Notifier

	mu      sync.Mutex
	token   string
	state   models.CartState
	epoch   uint64
	lineSeq map[string]uint64
}

func NewCartSyncEngine(api CartAPI, notifier Notifier) *CartSyncEngine {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &CartSyncEngine{
		api:      api,
		notifier: notifier,
		state:    models.EmptyCart(),
		lineSeq:  make(map[string]uint64),
	}
}

// SetToken installs the principal credential. An empty token marks the
// session unauthenticated and empties the cart.
func (e *CartSyncEngine) SetToken(token string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.token = token
	if token == "" {
		e.resetLocked(models.EmptyCart())
	}
}

func (e *CartSyncEngine) authenticated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.token != ""
}

// State returns a snapshot; callers never see a half-updated cart.
func (e *CartSyncEngine) State() models.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// resetLocked installs a brand-new state and invalidates every in-flight
// mutation. Caller holds e.mu.
func (e *CartSyncEngine) resetLocked(state models.CartState) {
	e.state = state
	e.epoch++
	e.lineSeq = make(map[string]uint64)
}

// Reload fetches the full cart from the backend and replaces local state.
// Unauthenticated sessions and load failures both settle on an empty cart;
// a failed load degrades silently rather than blocking the UI.
func (e *CartSyncEngine) Reload(ctx context.Context) models.CartState {
	e.mu.Lock()
	token := e.token
	if token == "" {
		e.resetLocked(models.EmptyCart())
		st := e.state.Clone()
		e.mu.Unlock()
		return st
	}
	e.mu.Unlock()

	fetched, err := e.api.FetchCart(ctx, token)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		log.Printf("CartSyncEngine.Reload: failed to load cart: %v", err)
		e.resetLocked(models.EmptyCart())
		return e.state.Clone()
	}
	e.resetLocked(models.NormalizeCart(fetched))
	return e.state.Clone()
}

// AddLine creates a new line upstream and reloads. No optimistic mutation:
// the server owns price, stock and line identity for new lines.
func (e *CartSyncEngine) AddLine(ctx context.Context, productID string, quantity int) models.CartState {
	if !e.authenticated() {
		e.notifier.Notify(models.NewNotice(models.NoticeWarning,
			"Sign in required", "Please sign in to add items to your cart"))
		return e.State()
	}

	e.mu.Lock()
	token := e.token
	e.mu.Unlock()

	if err := e.api.AddCartLine(ctx, token, productID, quantity); err != nil {
		log.Printf("CartSyncEngine.AddLine: failed to add product %s: %v", productID, err)
		e.notifier.Notify(models.NewNotice(models.NoticeError,
			"Failed to add item", "Please try again or contact support if the problem persists."))
		return e.State()
	}

	plural := ""
	if quantity > 1 {
		plural = "s"
	}
	e.notifier.Notify(models.NewNotice(models.NoticeSuccess,
		"Added to cart!", fmt.Sprintf("%d item%s added to your cart", quantity, plural)))

	return e.Reload(ctx)
}

// UpdateQuantity changes a line's quantity via the optimistic protocol.
// Quantities below one are removals, not errors.
func (e *CartSyncEngine) UpdateQuantity(ctx context.Context, lineID string, quantity int) models.CartState {
	if quantity < 1 {
		return e.RemoveLine(ctx, lineID)
	}
	if !e.authenticated() {
		e.notifier.Notify(models.NewNotice(models.NoticeWarning,
			"Sign in required", "Please sign in to manage your cart"))
		return e.State()
	}

	e.mu.Lock()
	if _, ok := e.state.FindLine(lineID); !ok {
		log.Printf("CartSyncEngine.UpdateQuantity: line %s not found in local cart, ignoring", lineID)
		st := e.state.Clone()
		e.mu.Unlock()
		return st
	}

	snapshot := e.state.Clone()
	lines := make([]models.CartLine, 0, len(e.state.Lines))
	for _, l := range e.state.Lines {
		if l.LineID == lineID {
			l.Quantity = quantity
		}
		lines = append(lines, l)
	}
	e.state = models.NewCartState(lines)

	e.lineSeq[lineID]++
	seq := e.lineSeq[lineID]
	epoch := e.epoch
	token := e.token
	e.mu.Unlock()

	err := e.api.UpdateCartLine(ctx, token, lineID, quantity)
	return e.settleLineMutation(ctx, "UpdateQuantity", lineID, snapshot, epoch, seq, err,
		models.NewNotice(models.NoticeError,
			"Update failed", "Failed to update item quantity. Please try again."))
}

// RemoveLine deletes a line via the optimistic protocol.
func (e *CartSyncEngine) RemoveLine(ctx context.Context, lineID string) models.CartState {
	if !e.authenticated() {
		e.notifier.Notify(models.NewNotice(models.NoticeWarning,
			"Sign in required", "Please sign in to manage your cart"))
		return e.State()
	}

	e.mu.Lock()
	if _, ok := e.state.FindLine(lineID); !ok {
		log.Printf("CartSyncEngine.RemoveLine: line %s not found in local cart, ignoring", lineID)
		st := e.state.Clone()
		e.mu.Unlock()
		return st
	}

	snapshot := e.state.Clone()
	lines := make([]models.CartLine, 0, len(e.state.Lines))
	for _, l := range e.state.Lines {
		if l.LineID != lineID {
			lines = append(lines, l)
		}
	}
	e.state = models.NewCartState(lines)

	e.lineSeq[lineID]++
	seq := e.lineSeq[lineID]
	epoch := e.epoch
	token := e.token
	e.mu.Unlock()

	err := e.api.DeleteCartLine(ctx, token, lineID)
	return e.settleLineMutation(ctx, "RemoveLine", lineID, snapshot, epoch, seq, err,
		models.NewNotice(models.NoticeError,
			"Remove failed", "Failed to remove item from cart. Please try again."))
}

// settleLineMutation applies the terminal outcome of an optimistic line
// mutation once its network call resolves.
func (e *CartSyncEngine) settleLineMutation(ctx context.Context, op, lineID string, snapshot models.CartState, epoch, seq uint64, err error, failNotice models.Notice) models.CartState {
	e.mu.Lock()

	if e.epoch != epoch || e.lineSeq[lineID] != seq {
		log.Printf("CartSyncEngine.%s: discarding stale outcome for line %s", op, lineID)
		st := e.state.Clone()
		e.mu.Unlock()
		return st
	}

	switch {
	case err == nil:
		// Optimistic state stands.
		st := e.state.Clone()
		e.mu.Unlock()
		return st

	case errors.Is(err, ErrNotFound):
		// Gone on both paths: the line was already removed server-side.
		// The stale snapshot is not the truth either, so reload.
		e.mu.Unlock()
		log.Printf("CartSyncEngine.%s: line %s not found upstream, reloading cart", op, lineID)
		e.notifier.Notify(models.NewNotice(models.NoticeWarning,
			"Item removed", "This item was already removed from your cart."))
		return e.Reload(ctx)

	default:
		e.state = revertLine(e.state, snapshot, lineID)
		st := e.state.Clone()
		e.mu.Unlock()
		log.Printf("CartSyncEngine.%s: failed for line %s, rolled back: %v", op, lineID, err)
		e.notifier.Notify(failNotice)
		return st
	}
}

// Clear empties the cart optimistically and reconciles with the backend.
func (e *CartSyncEngine) Clear(ctx context.Context) models.CartState {
	if !e.authenticated() {
		e.notifier.Notify(models.NewNotice(models.NoticeWarning,
			"Sign in required", "Please sign in to manage your cart"))
		return e.State()
	}

	e.mu.Lock()
	snapshot := e.state.Clone()
	e.resetLocked(models.EmptyCart())
	epoch := e.epoch
	token := e.token
	e.mu.Unlock()

	err := e.api.ClearCart(ctx, token)

	e.mu.Lock()
	if e.epoch != epoch {
		log.Printf("CartSyncEngine.Clear: discarding stale outcome")
		st := e.state.Clone()
		e.mu.Unlock()
		return st
	}
	if err != nil {
		e.resetLocked(snapshot)
		st := e.state.Clone()
		e.mu.Unlock()
		log.Printf("CartSyncEngine.Clear: failed, rolled back: %v", err)
		e.notifier.Notify(models.NewNotice(models.NoticeError,
			"Clear failed", "Failed to clear cart. Please try again."))
		return st
	}
	st := e.state.Clone()
	e.mu.Unlock()
	e.notifier.Notify(models.NewNotice(models.NoticeSuccess,
		"Cart cleared", "All items have been removed from your cart."))
	return st
}

// revertLine restores a single line to its snapshot value without touching
// the rest of the current state, so a rollback cannot clobber a concurrent
// mutation of another line. Derived totals are recomputed from the result.
func revertLine(current, snapshot models.CartState, lineID string) models.CartState {
	prior, existed := snapshot.FindLine(lineID)
	if !existed {
		// The line was new in-flight; drop it.
		lines := make([]models.CartLine, 0, len(current.Lines))
		for _, l := range current.Lines {
			if l.LineID != lineID {
				lines = append(lines, l)
			}
		}
		return models.NewCartState(lines)
	}

	if _, ok := current.FindLine(lineID); ok {
		lines := make([]models.CartLine, 0, len(current.Lines))
		for _, l := range current.Lines {
			if l.LineID == lineID {
				l = prior
			}
			lines = append(lines, l)
		}
		return models.NewCartState(lines)
	}

	// The optimistic mutation removed the line; reinsert it near its
	// original position.
	idx := 0
	for i, l := range snapshot.Lines {
		if l.LineID == lineID {
			idx = i
			break
		}
	}
	if idx > len(current.Lines) {
		idx = len(current.Lines)
	}
	lines := make([]models.CartLine, 0, len(current.Lines)+1)
	lines = append(lines, current.Lines[:idx]...)
	lines = append(lines, prior)
	lines = append(lines, current.Lines[idx:]...)
	return models.NewCartState(lines)
}
