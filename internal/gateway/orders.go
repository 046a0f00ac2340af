package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Arsh369/thekitabart/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// OrderGateway submits orders and reads order history. All calls go
// through a circuit breaker so a dead order service fails fast instead of
// hanging every checkout behind the full timeout.
type OrderGateway struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewOrderGateway(baseURL string, timeout time.Duration) *OrderGateway {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "order-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &OrderGateway{
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: timeout,
		breaker: breaker,
	}
}

// Submit posts the order draft and returns the created order record. The
// gateway only reports the outcome; clearing the cart on success is the
// caller's decision.
func (g *OrderGateway) Submit(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("marshal order draft: %w", err)
	}

	data, err := g.breaker.Execute(func() ([]byte, error) {
		return g.post(ctx, "/api/orders", body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("order service circuit open: %w", ErrUnavailable)
		}
		return nil, err
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("decode created order: %w", err)
	}
	return &order, nil
}

func (g *OrderGateway) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	data, err := g.breaker.Execute(func() ([]byte, error) {
		return g.get(ctx, "/api/orders?userId="+url.QueryEscape(userID))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("order service circuit open: %w", ErrUnavailable)
		}
		return nil, err
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (g *OrderGateway) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return g.do(req)
}

func (g *OrderGateway) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build orders request: %w", err)
	}

	return g.do(req)
}

func (g *OrderGateway) do(req *http.Request) ([]byte, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order service call: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("order service responded %d: %w", resp.StatusCode, ErrUnavailable)
	}
	return data, nil
}
