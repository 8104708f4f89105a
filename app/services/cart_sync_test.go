package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aurelia-jewels/storefront/app/models"
	"github.com/aurelia-jewels/storefront/app/models/other"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartAPI struct {
	mu sync.Mutex

	cart      other.UpstreamCart
	fetchErr  error
	addErr    error
	updateErr error
	deleteErr error
	clearErr  error

	fetchCalls  int
	addCalls    int
	updateCalls int
	deleteCalls int
	clearCalls  int

	// updateGate, when set, blocks UpdateCartLine until released. Used to
	// interleave overlapping mutations deterministically.
	updateStarted chan struct{}
	updateGate    chan struct{}
}

func (f *fakeCartAPI) FetchCart(ctx context.Context, token string) (other.UpstreamCart, error) {
	f.mu.Lock()
	f.fetchCalls++
	cart, err := f.cart, f.fetchErr
	f.mu.Unlock()
	if err != nil {
		return other.UpstreamCart{}, err
	}
	return cart, nil
}

func (f *fakeCartAPI) AddCartLine(ctx context.Context, token, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	return f.addErr
}

func (f *fakeCartAPI) UpdateCartLine(ctx context.Context, token, lineID string, quantity int) error {
	f.mu.Lock()
	f.updateCalls++
	err := f.updateErr
	started, gate := f.updateStarted, f.updateGate
	f.updateStarted, f.updateGate = nil, nil
	f.mu.Unlock()

	if started != nil {
		close(started)
		<-gate
	}
	return err
}

func (f *fakeCartAPI) DeleteCartLine(ctx context.Context, token, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeCartAPI) ClearCart(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	return f.clearErr
}

func upstreamLine(id, productID, name string, price float64, qty int) other.UpstreamCartLine {
	p := decimal.NewFromFloat(price)
	return other.UpstreamCartLine{
		CartItemID:  id,
		ProductID:   productID,
		Quantity:    qty,
		ProductName: name,
		Price:       &p,
	}
}

func newTestEngine(t *testing.T, api *fakeCartAPI) (*CartSyncEngine, *BufferNotifier) {
	t.Helper()
	notifier := NewBufferNotifier()
	engine := NewCartSyncEngine(api, notifier)
	engine.SetToken("token-1")
	return engine, notifier
}

// assertConsistent checks the derived-field invariant: totals always match
// the line data exactly.
func assertConsistent(t *testing.T, st models.CartState) {
	t.Helper()
	total := decimal.Zero
	count := 0
	for _, l := range st.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}
	assert.True(t, st.Total.Equal(total), "total %s != sum of line subtotals %s", st.Total, total)
	assert.Equal(t, count, st.ItemCount)
}

func noticeLevels(n []models.Notice) []models.NoticeLevel {
	levels := make([]models.NoticeLevel, 0, len(n))
	for _, notice := range n {
		levels = append(levels, notice.Level)
	}
	return levels
}

func TestReloadUnauthenticatedSkipsNetwork(t *testing.T) {
	api := &fakeCartAPI{}
	notifier := NewBufferNotifier()
	engine := NewCartSyncEngine(api, notifier)

	st := engine.Reload(context.Background())

	assert.Empty(t, st.Lines)
	assert.True(t, st.Total.IsZero())
	assert.Zero(t, st.ItemCount)
	assert.Zero(t, api.fetchCalls, "unauthenticated reload must not hit the backend")
}

func TestReloadNormalizesInconsistentLineShapes(t *testing.T) {
	embedded := other.UpstreamCartLine{
		CartItemID: "a",
		Quantity:   2,
		Product: &other.UpstreamProduct{
			ID:    "p1",
			Name:  "Sapphire Ring",
			Price: decimal.NewFromInt(120),
		},
	}
	flattened := upstreamLine("b", "p2", "Pearl Earrings", 45.50, 1)
	bare := other.UpstreamCartLine{CartItemID: "c", ProductID: "p3", Quantity: 3}

	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{embedded, flattened, bare},
	}}
	engine, _ := newTestEngine(t, api)

	st := engine.Reload(context.Background())

	require.Len(t, st.Lines, 3)
	assert.Equal(t, "Sapphire Ring", st.Lines[0].ProductName)
	assert.Equal(t, "p1", st.Lines[0].ProductID)
	assert.Equal(t, "Pearl Earrings", st.Lines[1].ProductName)
	assert.Equal(t, models.UnknownProductName, st.Lines[2].ProductName)
	assert.True(t, st.Lines[2].UnitPrice.IsZero())
	assert.True(t, st.Total.Equal(decimal.NewFromFloat(285.50)))
	assert.Equal(t, 6, st.ItemCount)
	assertConsistent(t, st)
}

func TestReloadFailureDegradesToEmpty(t *testing.T) {
	api := &fakeCartAPI{fetchErr: errors.New("connection refused")}
	engine, notifier := newTestEngine(t, api)

	st := engine.Reload(context.Background())

	assert.Empty(t, st.Lines)
	assert.True(t, st.Total.IsZero())
	assert.Empty(t, notifier.Drain(), "a failed load degrades silently")
}

func TestAddLineRequiresAuthentication(t *testing.T) {
	api := &fakeCartAPI{}
	notifier := NewBufferNotifier()
	engine := NewCartSyncEngine(api, notifier)

	st := engine.AddLine(context.Background(), "p1", 1)

	assert.Empty(t, st.Lines)
	assert.Zero(t, api.addCalls, "unauthenticated add must not hit the backend")
	notices := notifier.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeWarning, notices[0].Level)
	assert.Equal(t, "Sign in required", notices[0].Title)
}

func TestAddLineSuccessReloadsAndConfirms(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{upstreamLine("a", "p1", "Gold Bracelet", 200, 2)},
	}}
	engine, notifier := newTestEngine(t, api)

	st := engine.AddLine(context.Background(), "p1", 2)

	assert.Equal(t, 1, api.addCalls)
	assert.Equal(t, 1, api.fetchCalls, "add must trigger a full reload")
	require.Len(t, st.Lines, 1)
	assert.Equal(t, 2, st.Lines[0].Quantity)
	assertConsistent(t, st)

	notices := notifier.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeSuccess, notices[0].Level)
	assert.Contains(t, notices[0].Message, "2 items")
}

func TestAddLineFailureLeavesStateUntouched(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{upstreamLine("a", "p1", "Gold Bracelet", 200, 1)},
	}}
	engine, notifier := newTestEngine(t, api)
	before := engine.Reload(context.Background())
	notifier.Drain()

	api.addErr = errors.New("boom")
	st := engine.AddLine(context.Background(), "p2", 1)

	assert.Equal(t, before, st)
	assert.Equal(t, 1, api.fetchCalls, "failed add must not reload")
	notices := notifier.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeError, notices[0].Level)
}

func TestUpdateQuantityOptimisticSuccess(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{upstreamLine("a", "p1", "Ring", 10, 2)},
	}}
	engine, notifier := newTestEngine(t, api)
	st := engine.Reload(context.Background())
	require.True(t, st.Total.Equal(decimal.NewFromInt(20)))
	require.Equal(t, 2, st.ItemCount)
	notifier.Drain()

	st = engine.UpdateQuantity(context.Background(), "a", 5)

	require.Len(t, st.Lines, 1)
	assert.Equal(t, 5, st.Lines[0].Quantity)
	assert.True(t, st.Total.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 5, st.ItemCount)
	assertConsistent(t, st)
	assert.Equal(t, 1, api.updateCalls)
	assert.Equal(t, 1, api.fetchCalls, "successful update must not reload")
	assert.Empty(t, notifier.Drain())
}

func TestUpdateQuantityRollsBackOnServerError(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{
			upstreamLine("a", "p1", "Ring", 10, 2),
			upstreamLine("b", "p2", "Necklace", 75, 1),
		},
	}}
	engine, notifier := newTestEngine(t, api)
	before := engine.Reload(context.Background())
	notifier.Drain()

	api.updateErr = errors.New("status 500")
	st := engine.UpdateQuantity(context.Background(), "a", 9)

	assert.Equal(t, before, st, "rollback must restore the pre-call state exactly")
	assertConsistent(t, st)
	notices := notifier.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeError, notices[0].Level)
	assert.Contains(t, notices[0].Message, "try again")
}

func TestUpdateQuantityDoubleNotFoundReloads(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{upstreamLine("a", "p1", "Ring", 10, 2)},
	}}
	engine, notifier := newTestEngine(t, api)
	engine.Reload(context.Background())
	notifier.Drain()

	// The line vanished server-side; both endpoint candidates 404ed.
	api.updateErr = fmt.Errorf("PUT /api/v1/cart/a: status 404: %w", ErrNotFound)
	api.cart = other.UpstreamCart{}
	st := engine.UpdateQuantity(context.Background(), "a", 5)

	assert.Empty(t, st.Lines, "reload must reflect the server truth")
	assert.Equal(t, 2, api.fetchCalls, "not-found recovery reloads exactly once")
	notices := notifier.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeWarning, notices[0].Level, "already-removed is informational, not an error")
	assert.NotContains(t, noticeLevels(notices), models.NoticeError)
}

func TestUpdateQuantityBelowOneDelegatesToRemove(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{upstreamLine("a", "p1", "Ring", 10, 2)},
	}}
	engine, notifier := newTestEngine(t, api)
	engine.Reload(context.Background())
	notifier.Drain()

	st := engine.UpdateQuantity(context.Background(), "a", 0)

	assert.Empty(t, st.Lines)
	assert.Zero(t, api.updateCalls, "qty<1 must not send an update")
	assert.Equal(t, 1, api.deleteCalls)
	assertConsistent(t, st)
}

func TestUpdateQuantityUnknownLineIsNoop(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{upstreamLine("a", "p1", "Ring", 10, 2)},
	}}
	engine, notifier := newTestEngine(t, api)
	before := engine.Reload(context.Background())
	notifier.Drain()

	st := engine.UpdateQuantity(context.Background(), "nope", 5)

	assert.Equal(t, before, st)
	assert.Zero(t, api.updateCalls)
	assert.Empty(t, notifier.Drain())
}

func TestRemoveLineOptimisticSuccess(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{
			upstreamLine("a", "p1", "Ring", 10, 2),
			upstreamLine("b", "p2", "Necklace", 75, 1),
		},
	}}
	engine, notifier := newTestEngine(t, api)
	engine.Reload(context.Background())
	notifier.Drain()

	st := engine.RemoveLine(context.Background(), "a")

	require.Len(t, st.Lines, 1)
	assert.Equal(t, "b", st.Lines[0].LineID)
	assert.True(t, st.Total.Equal(decimal.NewFromInt(75)))
	assertConsistent(t, st)
	assert.Equal(t, 1, api.fetchCalls, "successful remove must not reload")
}

func TestRemoveLineRollsBackPreservingOrder(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{
			upstreamLine("a", "p1", "Ring", 10, 2),
			upstreamLine("b", "p2", "Necklace", 75, 1),
			upstreamLine("c", "p3", "Bracelet", 30, 4),
		},
	}}
	engine, notifier := newTestEngine(t, api)
	before := engine.Reload(context.Background())
	notifier.Drain()

	api.deleteErr = errors.New("status 503")
	st := engine.RemoveLine(context.Background(), "b")

	assert.Equal(t, before, st, "rollback must reinsert the line at its original position")
	assertConsistent(t, st)
	notices := notifier.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeError, notices[0].Level)
}

func TestRemoveLineDoubleNotFoundReloadsOnce(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{upstreamLine("a", "p1", "Ring", 10, 2)},
	}}
	engine, notifier := newTestEngine(t, api)
	engine.Reload(context.Background())
	notifier.Drain()

	api.deleteErr = fmt.Errorf("DELETE /api/v1/cart/a: status 404: %w", ErrNotFound)
	api.cart = other.UpstreamCart{}
	st := engine.RemoveLine(context.Background(), "a")

	assert.Empty(t, st.Lines)
	assert.Equal(t, 2, api.fetchCalls, "exactly one recovery reload")
	notices := notifier.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeWarning, notices[0].Level)
}

func TestClearOptimisticAndIdempotent(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{upstreamLine("a", "p1", "Ring", 10, 2)},
	}}
	engine, notifier := newTestEngine(t, api)
	engine.Reload(context.Background())
	notifier.Drain()

	st := engine.Clear(context.Background())
	assert.Empty(t, st.Lines)
	assert.True(t, st.Total.IsZero())

	st = engine.Clear(context.Background())
	assert.Empty(t, st.Lines)
	assert.Equal(t, 2, api.clearCalls, "the network call still fires on a second clear")

	for _, n := range notifier.Drain() {
		assert.NotEqual(t, models.NoticeError, n.Level)
	}
}

func TestClearRollsBackOnFailure(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{
			upstreamLine("a", "p1", "Ring", 10, 2),
			upstreamLine("b", "p2", "Necklace", 75, 1),
		},
	}}
	engine, notifier := newTestEngine(t, api)
	before := engine.Reload(context.Background())
	notifier.Drain()

	api.clearErr = errors.New("status 500")
	st := engine.Clear(context.Background())

	assert.Equal(t, before, st)
	assertConsistent(t, st)
	notices := notifier.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeError, notices[0].Level)
}

func TestLogoutEmptiesCart(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{upstreamLine("a", "p1", "Ring", 10, 2)},
	}}
	engine, _ := newTestEngine(t, api)
	engine.Reload(context.Background())

	engine.SetToken("")

	st := engine.State()
	assert.Empty(t, st.Lines)
	assert.True(t, st.Total.IsZero())
}

// A slow-failing older mutation must not undo a newer one on the same line.
func TestStaleOutcomeIsDiscarded(t *testing.T) {
	api := &fakeCartAPI{cart: other.UpstreamCart{
		Items: []other.UpstreamCartLine{upstreamLine("a", "p1", "Ring", 10, 2)},
	}}
	engine, notifier := newTestEngine(t, api)
	engine.Reload(context.Background())
	notifier.Drain()

	started := make(chan struct{})
	gate := make(chan struct{})
	api.mu.Lock()
	api.updateStarted = started
	api.updateGate = gate
	api.updateErr = errors.New("status 500")
	api.mu.Unlock()

	done := make(chan models.CartState)
	go func() {
		done <- engine.UpdateQuantity(context.Background(), "a", 3)
	}()
	<-started

	// Second mutation lands while the first is still in flight.
	api.mu.Lock()
	api.updateErr = nil
	api.mu.Unlock()
	st := engine.UpdateQuantity(context.Background(), "a", 7)
	require.Equal(t, 7, st.Lines[0].Quantity)

	// Release the first call; its failure outcome is stale now.
	close(gate)
	<-done

	final := engine.State()
	assert.Equal(t, 7, final.Lines[0].Quantity, "stale rollback must not undo the newer update")
	assertConsistent(t, final)
	assert.Empty(t, notifier.Drain(), "a discarded outcome produces no notice")
}
