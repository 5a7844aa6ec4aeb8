package http

import (
	"net/http"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// HeaderShopID carries the shop every request acts for.
const HeaderShopID = "X-Shop-ID"

const shopContextKey = "shopID"

var tracer = otel.Tracer("dispatch/http")

// ShopContext parses the shop header once per request and stores it on the context.
func ShopContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			shopID, err := kernel.NewShopID(c.Request().Header.Get(HeaderShopID))
			if err != nil {
				return badRequest(c, "invalid "+HeaderShopID+" header: "+err.Error())
			}
			c.Set(shopContextKey, shopID)
			return next(c)
		}
	}
}

func shopFrom(c echo.Context) (kernel.ShopID, error) {
	if shopID, ok := c.Get(shopContextKey).(kernel.ShopID); ok {
		return shopID, nil
	}
	return kernel.NewShopID(c.Request().Header.Get(HeaderShopID))
}

// Tracing opens a server span per operation request.
func Tracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx, span := tracer.Start(req.Context(), req.Method+" "+c.Path(),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attribute.String("shop.id", req.Header.Get(HeaderShopID))),
			)
			defer span.End()

			c.SetRequest(req.WithContext(ctx))
			err := next(c)

			status := c.Response().Status
			span.SetAttributes(attribute.Int("http.status_code", status))
			if err != nil {
				span.RecordError(err)
			}
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
			return err
		}
	}
}

// ShopRateLimiter throttles each shop independently with a token bucket.
// Buckets idle for longer than idleTTL are dropped on the next sweep.
type ShopRateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	shops     map[kernel.ShopID]*shopBucket
	lastSweep time.Time
	now       func() time.Time
}

type shopBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewShopRateLimiter allows rps requests per second per shop with the given burst.
// A non-positive rps disables throttling.
func NewShopRateLimiter(rps float64, burst int) *ShopRateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &ShopRateLimiter{
		limit:   limit,
		burst:   burst,
		idleTTL: 3 * time.Minute,
		shops:   make(map[kernel.ShopID]*shopBucket),
		now:     time.Now,
	}
}

// Allow reports whether the shop may make one more request now.
func (l *ShopRateLimiter) Allow(shopID kernel.ShopID) bool {
	l.mu.Lock()
	now := l.now()
	l.sweep(now)

	b, ok := l.shops[shopID]
	if !ok {
		b = &shopBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.shops[shopID] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

// sweep must be called with l.mu held.
func (l *ShopRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < time.Minute {
		return
	}
	l.lastSweep = now
	for shopID, b := range l.shops {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.shops, shopID)
		}
	}
}

// Middleware answers 429 once a shop runs out of tokens. It must run after ShopContext.
func (l *ShopRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			shopID, err := shopFrom(c)
			if err != nil {
				return badRequest(c, "invalid "+HeaderShopID+" header: "+err.Error())
			}
			if !l.Allow(shopID) {
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusTooManyRequests, Error{
					Code:    http.StatusTooManyRequests,
					Reason:  "RateLimited",
					Message: "too many requests for shop " + shopID.String(),
				})
			}
			return next(c)
		}
	}
}
