package api

import (
	"net/http"
	"sync/atomic"

	"github.com/rs/cors"
)

// originSet is an immutable snapshot of the allowed origins.
type originSet struct {
	any     bool
	origins map[string]struct{}
}

// CORS adds Access-Control-* headers to every response and answers
// preflight requests. The allowed origins can be swapped at runtime.
type CORS struct {
	set atomic.Pointer[originSet]
	mw  *cors.Cors
}

// NewCORS creates a CORS middleware allowing the given origins. "*" allows
// every origin. Allowed origins are echoed back with credentials enabled, and
// preflights get the requested headers echoed.
func NewCORS(origins []string) *CORS {
	c := &CORS{}
	c.SetOrigins(origins)
	c.mw = cors.New(cors.Options{
		AllowOriginFunc:      c.allowed,
		AllowedMethods:       []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:       []string{"*"},
		AllowCredentials:     true,
		OptionsSuccessStatus: http.StatusNoContent,
	})
	return c
}

// SetOrigins replaces the allowed origin list.
func (c *CORS) SetOrigins(origins []string) {
	s := &originSet{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o == "*" {
			s.any = true
		}
		s.origins[o] = struct{}{}
	}
	c.set.Store(s)
}

// Wrap returns next decorated with CORS handling.
func (c *CORS) Wrap(next http.Handler) http.Handler {
	return c.mw.Handler(next)
}

func (c *CORS) allowed(origin string) bool {
	s := c.set.Load()
	if s.any {
		return true
	}
	_, ok := s.origins[origin]
	return ok
}
