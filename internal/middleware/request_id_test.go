package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jaekwang-park/todo-list/internal/middleware"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{"generated", "", false},
		{"propagated", "abc-123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = middleware.RequestIDFrom(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(middleware.RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()

			middleware.RequestID(inner).ServeHTTP(w, req)

			if seen == "" {
				t.Fatal("expected request id in context")
			}
			if got := w.Header().Get(middleware.RequestIDHeader); got != seen {
				t.Errorf("expected response header %q, got %q", seen, got)
			}
			if tt.wantSame && seen != tt.incoming {
				t.Errorf("expected %q to be propagated, got %q", tt.incoming, seen)
			}
		})
	}
}
