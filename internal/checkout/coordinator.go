package checkout

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Arsh369/thekitabart/internal/cart"
	"github.com/Arsh369/thekitabart/internal/domain"
	"github.com/Arsh369/thekitabart/internal/events"
	"github.com/Arsh369/thekitabart/internal/pricing"
	"github.com/google/uuid"
)

// OrderSubmitter is the slice of the order gateway the coordinator needs.
type OrderSubmitter interface {
	Submit(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error)
}

// Coordinator guards the transition from cart to submitted order. It owns
// the OrderDraft for the duration of one attempt and is the only caller
// of CartStore.Clear.
type Coordinator struct {
	cart      *cart.Store
	orders    OrderSubmitter
	publisher events.Publisher

	inFlight atomic.Bool

	m     sync.RWMutex
	state domain.CheckoutState
}

func NewCoordinator(cartStore *cart.Store, orders OrderSubmitter, publisher events.Publisher) *Coordinator {
	c := &Coordinator{
		cart:      cartStore,
		orders:    orders,
		publisher: publisher,
		state:     domain.CheckoutStateIdle,
	}

	// The empty-cart guard re-runs whenever the cart changes: if it
	// empties while checkout is open (say, cleared from another tab),
	// checkout falls back to idle and the UI redirects to the cart view.
	cartStore.Subscribe(func() {
		if !cartStore.IsEmpty() {
			return
		}
		c.m.Lock()
		if c.state == domain.CheckoutStateValidating {
			c.state = domain.CheckoutStateIdle
		}
		c.m.Unlock()
	})

	return c
}

func (c *Coordinator) State() domain.CheckoutState {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.state
}

// Begin is the checkout entry guard. An empty cart never reaches
// validation; the caller redirects to the cart view instead.
func (c *Coordinator) Begin() error {
	if c.cart.IsEmpty() {
		c.setState(domain.CheckoutStateIdle)
		return ErrEmptyCart
	}
	c.setState(domain.CheckoutStateValidating)
	return nil
}

// PlaceOrder runs one checkout attempt for the session user: guard,
// validate, submit. On success the cart is cleared exactly once, only
// after the gateway has acknowledged the order. On any failure the cart
// is left untouched.
func (c *Coordinator) PlaceOrder(ctx context.Context, form Form, userID string) (*domain.Order, error) {
	if c.inFlight.Load() {
		return nil, ErrSubmissionInFlight
	}

	if err := c.Begin(); err != nil {
		return nil, err
	}

	if errs := Validate(form); errs != nil {
		// State stays at Validating so the shopper fixes fields and retries.
		return nil, &ValidationError{Fields: errs}
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	c.setState(domain.CheckoutStateSubmitting)

	snapshot := c.cart.Snapshot()
	if len(snapshot) == 0 {
		// Emptied between the guard and the snapshot.
		c.setState(domain.CheckoutStateIdle)
		return nil, ErrEmptyCart
	}

	draft := c.buildDraft(form, snapshot, userID)

	order, err := c.orders.Submit(ctx, draft)
	if err != nil {
		log.Printf("order submission failed, cart untouched: %v", err)
		c.setState(domain.CheckoutStateFailed)
		c.setState(domain.CheckoutStateValidating)
		return nil, fmt.Errorf("submit order: %w", err)
	}

	c.setState(domain.CheckoutStateSucceeded)

	// Clear only now: the server has durably accepted the order.
	c.cart.Clear(ctx)

	if errPub := c.publisher.OrderPlaced(ctx, order); errPub != nil {
		log.Printf("order placed event not published: %v", errPub)
	}

	c.setState(domain.CheckoutStateIdle)
	return order, nil
}

// buildDraft assembles the one-shot order payload. The total is always
// recomputed from the live snapshot; a client-supplied total is never
// trusted.
func (c *Coordinator) buildDraft(form Form, snapshot domain.Cart, userID string) *domain.OrderDraft {
	books := make([]domain.OrderLine, 0, len(snapshot))
	for _, item := range snapshot {
		books = append(books, domain.OrderLine{
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	totals := pricing.ComputeTotals(snapshot)

	return &domain.OrderDraft{
		CustomerInfo: domain.CustomerInfo{
			FullName:    form.FullName,
			Email:       form.Email,
			PhoneNumber: form.PhoneNumber,
		},
		DeliveryAddress: domain.DeliveryAddress{
			StreetAddress: form.StreetAddress,
			City:          form.City,
			State:         form.State,
			ZipCode:       form.ZipCode,
			Country:       form.Country,
		},
		DeliveryNote:   form.DeliveryNote,
		PaymentMethod:  form.PaymentMethod,
		Books:          books,
		Total:          totals.Total,
		UserID:         userID,
		IdempotencyKey: uuid.NewString(),
	}
}

func (c *Coordinator) setState(next domain.CheckoutState) {
	c.m.Lock()
	prev := c.state
	c.state = next
	c.m.Unlock()
	if prev == next {
		return
	}
	if next.IsTerminal() {
		log.Printf("checkout attempt finished: %s -> %s", prev, next)
		return
	}
	log.Printf("checkout state %s -> %s", prev, next)
}
