package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Arsh369/thekitabart/internal/cart"
	"github.com/Arsh369/thekitabart/internal/domain"
	"github.com/Arsh369/thekitabart/internal/events"
	"github.com/Arsh369/thekitabart/internal/storage"
	"github.com/stretchr/testify/assert"
	treq "github.com/stretchr/testify/require"
)

type mockSubmitter struct {
	m       sync.Mutex
	drafts  []*domain.OrderDraft
	err     error
	block   chan struct{} // when set, Submit waits until closed
	created *domain.Order
}

func (s *mockSubmitter) Submit(_ context.Context, draft *domain.OrderDraft) (*domain.Order, error) {
	s.m.Lock()
	s.drafts = append(s.drafts, draft)
	block := s.block
	s.m.Unlock()

	if block != nil {
		<-block
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.created != nil {
		return s.created, nil
	}
	return &domain.Order{ID: "ord-1", Total: draft.Total, CreatedAt: time.Now()}, nil
}

func (s *mockSubmitter) submitted() []*domain.OrderDraft {
	s.m.Lock()
	defer s.m.Unlock()
	return s.drafts
}

type recordingPublisher struct {
	m      sync.Mutex
	orders []*domain.Order
	err    error
}

func (p *recordingPublisher) OrderPlaced(_ context.Context, order *domain.Order) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.orders = append(p.orders, order)
	return p.err
}

func validForm() Form {
	return Form{
		FullName:      "Jane Reader",
		Email:         "jane@example.com",
		PhoneNumber:   "555-0101",
		StreetAddress: "1 Library Way",
		City:          "Booktown",
		State:         "CA",
		ZipCode:       "94000",
		Country:       "United States",
		DeliveryNote:  "leave at the door",
		PaymentMethod: domain.PaymentCashOnDelivery,
	}
}

func newTestCart(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.NewStore(storage.NewMemoryStore())
	treq.NoError(t, store.AddItem(context.Background(), domain.Book{ID: "b1", Title: "Dune", Price: 20}, 2))
	treq.NoError(t, store.AddItem(context.Background(), domain.Book{ID: "b2", Title: "Hyperion", Price: 9.99}, 1))
	return store
}

func TestPlaceOrder_EmptyCartGuardRunsBeforeValidation(t *testing.T) {
	store := cart.NewStore(storage.NewMemoryStore())
	submitter := &mockSubmitter{}
	coord := NewCoordinator(store, submitter, events.NoopPublisher{})

	// Deliberately invalid form: the guard must fire first.
	_, err := coord.PlaceOrder(context.Background(), Form{}, "u1")

	assert.ErrorIs(t, err, ErrEmptyCart)
	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr))
	assert.Empty(t, submitter.submitted())
	assert.Equal(t, domain.CheckoutStateIdle, coord.State())
}

func TestPlaceOrder_ValidationFailureLeavesCartUntouched(t *testing.T) {
	store := newTestCart(t)
	before := store.Snapshot()
	submitter := &mockSubmitter{}
	coord := NewCoordinator(store, submitter, events.NoopPublisher{})

	form := validForm()
	form.Email = "not-an-email"
	form.ZipCode = " "

	_, err := coord.PlaceOrder(context.Background(), form, "u1")

	var vErr *ValidationError
	treq.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "email")
	assert.Contains(t, vErr.Fields, "zipCode")
	assert.NotContains(t, vErr.Fields, "fullName")

	assert.Equal(t, before, store.Snapshot())
	assert.Empty(t, submitter.submitted())
	assert.Equal(t, domain.CheckoutStateValidating, coord.State())
}

func TestPlaceOrder_SuccessClearsCartAfterAck(t *testing.T) {
	store := newTestCart(t)
	submitter := &mockSubmitter{}
	publisher := &recordingPublisher{}
	coord := NewCoordinator(store, submitter, publisher)

	order, err := coord.PlaceOrder(context.Background(), validForm(), "u1")

	treq.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.True(t, store.IsEmpty(), "cart must be cleared after acknowledgment")
	assert.Equal(t, domain.CheckoutStateIdle, coord.State())

	treq.Len(t, publisher.orders, 1)
	assert.Equal(t, "ord-1", publisher.orders[0].ID)
}

func TestPlaceOrder_DraftCarriesRecomputedTotal(t *testing.T) {
	store := newTestCart(t) // 2x20 + 9.99 = 49.99
	submitter := &mockSubmitter{}
	coord := NewCoordinator(store, submitter, events.NoopPublisher{})

	_, err := coord.PlaceOrder(context.Background(), validForm(), "u7")
	treq.NoError(t, err)

	drafts := submitter.submitted()
	treq.Len(t, drafts, 1)
	draft := drafts[0]

	assert.InDelta(t, 53.99, draft.Total, 0.001)
	assert.Equal(t, "u7", draft.UserID)
	assert.NotEmpty(t, draft.IdempotencyKey)
	treq.Len(t, draft.Books, 2)
	assert.Equal(t, domain.OrderLine{Title: "Dune", Quantity: 2, Price: 20}, draft.Books[0])
	assert.Equal(t, domain.OrderLine{Title: "Hyperion", Quantity: 1, Price: 9.99}, draft.Books[1])
}

func TestPlaceOrder_DraftCarriesSessionUser(t *testing.T) {
	submitter := &mockSubmitter{}

	for _, userID := range []string{"alice", "bob"} {
		store := newTestCart(t)
		coord := NewCoordinator(store, submitter, events.NoopPublisher{})

		_, err := coord.PlaceOrder(context.Background(), validForm(), userID)
		treq.NoError(t, err)
	}

	drafts := submitter.submitted()
	treq.Len(t, drafts, 2)
	assert.Equal(t, "alice", drafts[0].UserID)
	assert.Equal(t, "bob", drafts[1].UserID)
}

func TestPlaceOrder_GatewayFailureLeavesCartIntact(t *testing.T) {
	store := newTestCart(t)
	before := store.Snapshot()
	submitter := &mockSubmitter{err: errors.New("order service down")}
	coord := NewCoordinator(store, submitter, events.NoopPublisher{})

	_, err := coord.PlaceOrder(context.Background(), validForm(), "u1")

	treq.Error(t, err)
	assert.Equal(t, before, store.Snapshot(), "failed submission must not mutate the cart")
	assert.Equal(t, domain.CheckoutStateValidating, coord.State())
}

func TestPlaceOrder_RetryAfterFailureSucceeds(t *testing.T) {
	store := newTestCart(t)
	submitter := &mockSubmitter{err: errors.New("transient")}
	coord := NewCoordinator(store, submitter, events.NoopPublisher{})

	_, err := coord.PlaceOrder(context.Background(), validForm(), "u1")
	treq.Error(t, err)

	submitter.m.Lock()
	submitter.err = nil
	submitter.m.Unlock()

	order, err := coord.PlaceOrder(context.Background(), validForm(), "u1")
	treq.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.True(t, store.IsEmpty())
	assert.Len(t, submitter.submitted(), 2)
}

func TestPlaceOrder_SecondConcurrentSubmissionRejected(t *testing.T) {
	store := newTestCart(t)
	block := make(chan struct{})
	submitter := &mockSubmitter{block: block}
	coord := NewCoordinator(store, submitter, events.NoopPublisher{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := coord.PlaceOrder(context.Background(), validForm(), "u1")
		firstDone <- err
	}()

	// Wait for the first attempt to reach the gateway.
	treq.Eventually(t, func() bool {
		return len(submitter.submitted()) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := coord.PlaceOrder(context.Background(), validForm(), "u1")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(block)
	treq.NoError(t, <-firstDone)

	assert.Len(t, submitter.submitted(), 1, "only one order may reach the gateway")
}

func TestPlaceOrder_PublishFailureDoesNotFailCheckout(t *testing.T) {
	store := newTestCart(t)
	submitter := &mockSubmitter{}
	publisher := &recordingPublisher{err: errors.New("broker down")}
	coord := NewCoordinator(store, submitter, publisher)

	order, err := coord.PlaceOrder(context.Background(), validForm(), "u1")

	treq.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.True(t, store.IsEmpty())
}

func TestBegin_EmptyCartRedirects(t *testing.T) {
	store := cart.NewStore(storage.NewMemoryStore())
	coord := NewCoordinator(store, &mockSubmitter{}, events.NoopPublisher{})

	assert.ErrorIs(t, coord.Begin(), ErrEmptyCart)
	assert.Equal(t, domain.CheckoutStateIdle, coord.State())
}

func TestGuard_RerunsWhenCartEmptiesWhileCheckoutOpen(t *testing.T) {
	store := newTestCart(t)
	coord := NewCoordinator(store, &mockSubmitter{}, events.NoopPublisher{})

	treq.NoError(t, coord.Begin())
	assert.Equal(t, domain.CheckoutStateValidating, coord.State())

	// Cart cleared out from under the open checkout, e.g. another tab.
	store.Clear(context.Background())

	assert.Equal(t, domain.CheckoutStateIdle, coord.State())
}
