package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"qualiobra/cmd/internal/utils/apierror"
)

// FixedWindowStore allows at most Limit attempts per identifier in each
// window. It implements middleware.RateLimiterStore.
type FixedWindowStore struct {
	Limit  int
	Window time.Duration

	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewFixedWindowStore(limit int, w time.Duration) *FixedWindowStore {
	return &FixedWindowStore{
		Limit:   limit,
		Window:  w,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (s *FixedWindowStore) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[identifier]
	if !ok || now.Sub(w.start) >= s.Window {
		s.windows[identifier] = &window{start: now, count: 1}
		s.sweep(now)
		return true, nil
	}

	if w.count >= s.Limit {
		return false, nil
	}
	w.count++
	return true, nil
}

// sweep drops windows that already ended. Callers hold the lock.
func (s *FixedWindowStore) sweep(now time.Time) {
	for id, w := range s.windows {
		if now.Sub(w.start) >= s.Window {
			delete(s.windows, id)
		}
	}
}

// NewLoginRateLimiter throttles the credential routes per client IP.
func NewLoginRateLimiter(limit int, w time.Duration) echo.MiddlewareFunc {
	return rateLimiter(NewFixedWindowStore(limit, w))
}

// NewAPIRateLimiter throttles every other route with a token bucket per IP.
func NewAPIRateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return rateLimiter(store)
}

func rateLimiter(store middleware.RateLimiterStore) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, apierror.MissingAccessError)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(apierror.TooManyRequestsError.Code(), apierror.TooManyRequestsError)
		},
	})
}
