package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Arsh369/thekitabart/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogGateway reads book records from the remote catalog. Concurrent
// lookups for the same id are collapsed with singleflight so a burst of
// add-to-cart clicks costs one upstream request.
type CatalogGateway struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	sfg     singleflight.Group
}

func NewCatalogGateway(baseURL string, timeout time.Duration) *CatalogGateway {
	return &CatalogGateway{
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (g *CatalogGateway) ListBooks(ctx context.Context) ([]domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/books", nil)
	if err != nil {
		return nil, fmt.Errorf("build books request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch books: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog responded %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var books []domain.Book
	if err := json.NewDecoder(resp.Body).Decode(&books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}

func (g *CatalogGateway) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	v, err, _ := g.sfg.Do(id, func() (interface{}, error) {
		return g.fetchBook(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Book), nil
}

func (g *CatalogGateway) fetchBook(ctx context.Context, id string) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	u := g.baseURL + "/api/books/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build book request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch book %s: %v: %w", id, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("book %s: %w", id, ErrBookNotFound)
	default:
		return nil, fmt.Errorf("catalog responded %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var book domain.Book
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return nil, fmt.Errorf("decode book %s: %w", id, err)
	}
	return &book, nil
}
