package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/client"
)

// Upstream is the provider gateway being cached.
type Upstream interface {
	Search(ctx context.Context, q client.Query) ([]byte, error)
	Paginate(ctx context.Context, q client.Query, pageIndex int) ([]byte, error)
	InitializeOrder(ctx context.Context, line client.OrderLine) ([]byte, error)
	PlaceOrder(ctx context.Context, lines []client.OrderLine) ([]client.LineResult, error)
}

// CachingTransport serves repeated searches and pages from Redis.  Identical
// concurrent lookups share one upstream call.  Provisional orders and
// placements always go upstream.  A Redis failure degrades to an uncached
// call.
type CachingTransport struct {
	next   Upstream
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
	group  singleflight.Group
	onHit  func(hit bool)
}

// CacheOption configures a CachingTransport.
type CacheOption func(*CachingTransport)

// WithPrefix sets the key prefix.  Defaults to "titleorder:".
func WithPrefix(prefix string) CacheOption {
	return func(c *CachingTransport) { c.prefix = prefix }
}

// WithTTL sets how long a payload is served from the cache.  Defaults to
// five minutes.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachingTransport) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithHitRecorder reports every lookup as a hit or a miss.
func WithHitRecorder(fn func(hit bool)) CacheOption {
	return func(c *CachingTransport) { c.onHit = fn }
}

// NewCachingTransport decorates next.
func NewCachingTransport(next Upstream, c *Client, log logging.Logger, opts ...CacheOption) *CachingTransport {
	t := &CachingTransport{
		next:   next,
		client: c,
		logger: log,
		prefix: "titleorder:",
		ttl:    5 * time.Minute,
		onHit:  func(bool) {},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.onHit == nil {
		t.onHit = func(bool) {}
	}
	return t
}

// searchKey hashes the query fields that determine the provider's answer.
// The matter reference is excluded; it does not change the results.
func (t *CachingTransport) searchKey(q client.Query, pageIndex int) string {
	body, _ := json.Marshal(struct {
		Jurisdiction string            `json:"j"`
		ProductCode  string            `json:"p"`
		SearchType   string            `json:"s"`
		Criteria     map[string]string `json:"c"`
	}{q.Jurisdiction, q.ProductCode, q.SearchType, q.Criteria})
	sum := sha256.Sum256(body)
	return t.prefix + "search:" + q.Jurisdiction + ":" + hex.EncodeToString(sum[:16]) + ":" + strconv.Itoa(pageIndex)
}

func (t *CachingTransport) cached(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	payload, err := t.client.GetBytes(ctx, key)
	switch {
	case err == nil:
		t.logger.Debug("search cache hit", logging.String("key", key))
		t.onHit(true)
		return payload, nil
	case !stderrors.Is(err, redis.Nil):
		t.logger.Warn("search cache read failed", logging.String("key", key), logging.Err(err))
	}
	t.onHit(false)

	v, err, shared := t.group.Do(key, func() (interface{}, error) {
		payload, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if setErr := t.client.SetBytes(context.WithoutCancel(ctx), key, payload, t.ttl); setErr != nil {
			t.logger.Warn("search cache write failed", logging.String("key", key), logging.Err(setErr))
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		t.logger.Debug("search shared with concurrent caller", logging.String("key", key))
	}
	return v.([]byte), nil
}

// Search returns the cached first page of q or fetches it.
func (t *CachingTransport) Search(ctx context.Context, q client.Query) ([]byte, error) {
	return t.cached(ctx, t.searchKey(q, 0), func(ctx context.Context) ([]byte, error) {
		return t.next.Search(ctx, q)
	})
}

// Paginate returns the cached page of q or fetches it.
func (t *CachingTransport) Paginate(ctx context.Context, q client.Query, pageIndex int) ([]byte, error) {
	return t.cached(ctx, t.searchKey(q, pageIndex), func(ctx context.Context) ([]byte, error) {
		return t.next.Paginate(ctx, q, pageIndex)
	})
}

// InitializeOrder is never cached.
func (t *CachingTransport) InitializeOrder(ctx context.Context, line client.OrderLine) ([]byte, error) {
	return t.next.InitializeOrder(ctx, line)
}

// PlaceOrder is never cached.
func (t *CachingTransport) PlaceOrder(ctx context.Context, lines []client.OrderLine) ([]client.LineResult, error) {
	return t.next.PlaceOrder(ctx, lines)
}

// Invalidate drops every cached payload of jurisdiction j.
func (t *CachingTransport) Invalidate(ctx context.Context, j string) (int64, error) {
	return t.client.DeleteByPrefix(ctx, t.prefix+"search:"+j+":")
}
