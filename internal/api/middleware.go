package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kintree/pkg/observability"
)

// hooks reports every request to the registered HTTP hooks. OnRequest sees
// the raw path because routing has not happened yet; OnResponse sees the
// matched route pattern, which keeps its cardinality bounded.
func hooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := observability.HTTP()
		h.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
			if route != "/" {
				route = strings.TrimSuffix(route, "/")
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}
