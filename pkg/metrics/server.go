package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Route pairs a mux pattern with its handler on the sidecar HTTP server.
// Patterns may carry a method prefix ("GET /health/ready").
type Route struct {
	Pattern string
	Handler http.Handler
}

// StartServer exposes the Prometheus scrape endpoint plus any extra routes
// on the given port and returns a shutdown function.
func StartServer(port int, extra ...Route) (shutdown func(context.Context) error) {
	paths := []string{"/metrics"}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	for _, rt := range extra {
		mux.Handle(rt.Pattern, rt.Handler)
		path := rt.Pattern
		if i := strings.LastIndex(path, " "); i >= 0 {
			path = path[i+1:]
		}
		paths = append(paths, path)
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>packdex</h1><ul>")
		for _, path := range paths {
			fmt.Fprintf(w, `<li><a href=%q>%s</a></li>`, path, path)
		}
		fmt.Fprint(w, "</ul></body></html>")
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("metrics server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()

	return server.Shutdown
}
