package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxBody caps the feed response size.
const maxBody = 10 << 20

var ErrUnavailable = errors.New("product feed unavailable")

// Item is one product in the dummyjson feed schema.
type Item struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Thumbnail   *string  `json:"thumbnail"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Rating      float64  `json:"rating"`
	Brand       string   `json:"brand"`
}

// Name is the title used in import reports, empty when the feed left it out.
func (it Item) Name() string {
	if it.Title == nil {
		return ""
	}
	return *it.Title
}

// Product maps the item onto a validated catalog product.
func (it Item) Product() (domain.Product, error) {
	images := it.Images
	if images == nil {
		images = []string{}
	}
	return domain.NewProduct(domain.ProductInput{
		Title:       it.Title,
		Description: it.Description,
		Price:       it.Price,
		Category:    it.Category,
		Thumbnail:   it.Thumbnail,
		Images:      &images,
		Stock:       &it.Stock,
		Rating:      &it.Rating,
		Brand:       &it.Brand,
	})
}

type page struct {
	Products []Item `json:"products"`
}

type Config struct {
	URL     string
	Limit   int
	Timeout time.Duration
}

// Client fetches the external product feed. Repeated failures open the breaker and
// further calls fail fast until it half-opens.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]Item]
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	return newClient(cfg, &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, log)
}

func newClient(cfg Config, hc *http.Client, log zerolog.Logger) *Client {
	log = log.With().Str("component", "feed").Logger()
	settings := gobreaker.Settings{
		Name:        "product-feed",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &Client{
		cfg:     cfg,
		http:    hc,
		breaker: gobreaker.NewCircuitBreaker[[]Item](settings),
		log:     log,
	}
}

// Fetch returns up to cfg.Limit feed items.
func (c *Client) Fetch(ctx context.Context) ([]Item, error) {
	items, err := c.breaker.Execute(func() ([]Item, error) {
		return c.fetch(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return items, err
}

func (c *Client) fetch(ctx context.Context) ([]Item, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed url: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(c.cfg.Limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var p page
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	c.log.Debug().Int("items", len(p.Products)).Msg("feed fetched")
	return p.Products, nil
}
