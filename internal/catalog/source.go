package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/text/currency"
)

const maxCatalogBytes = 4 << 20

// productRecord is the transport shape of one catalog entry.
type productRecord struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

func decodeProducts(data []byte, cur currency.Unit) ([]domain.Product, error) {
	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		products = append(products, domain.Product{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Price:       domain.NewMoney(r.Price, cur),
			Stock:       r.Stock,
		})
	}

	return products, nil
}

type fileSource struct {
	path     string
	currency currency.Unit
}

// NewFileSource reads a JSON array of products from a local file.
func NewFileSource(path string, cur currency.Unit) port.CatalogSource {
	return &fileSource{path: path, currency: cur}
}

func (s *fileSource) LoadProducts(_ context.Context) ([]domain.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	products, err := decodeProducts(data, s.currency)
	if err != nil {
		return nil, fmt.Errorf("decodeProducts: %w", err)
	}

	return products, nil
}

type httpSource struct {
	url      string
	currency currency.Unit
	client   *http.Client
	cb       *gobreaker.CircuitBreaker[[]byte]
}

// NewHTTPSource fetches the JSON catalog from url. Repeated failures open a
// circuit breaker that fails fast until its timeout elapses.
func NewHTTPSource(url string, cur currency.Unit, client *http.Client) port.CatalogSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &httpSource{
		url:      url,
		currency: cur,
		client:   client,
		cb: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "catalog-http",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

func (s *httpSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := s.cb.Execute(func() ([]byte, error) {
		return s.get(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("cb.Execute: %w", err)
	}

	products, err := decodeProducts(body, s.currency)
	if err != nil {
		return nil, fmt.Errorf("decodeProducts: %w", err)
	}

	return products, nil
}

func (s *httpSource) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status[%d]", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	return body, nil
}
