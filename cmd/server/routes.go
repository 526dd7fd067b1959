package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/tablesplit/internal/metrics"
	"github.com/mmynk/tablesplit/internal/middleware"
	"github.com/mmynk/tablesplit/internal/receipt"
	"github.com/mmynk/tablesplit/internal/service"
	"github.com/mmynk/tablesplit/internal/storage"
	"github.com/mmynk/tablesplit/pkg/api"
)

// receiptSource builds the receipt summary for a table.
type receiptSource interface {
	Receipt(ctx context.Context, tableID string) (receipt.Summary, error)
}

// newRouter mounts the Connect service, receipts, metrics and health check.
func newRouter(svc *service.TableService, m *metrics.Metrics, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(m),
	)
	path, handler := api.NewTableServiceHandler(svc, interceptors)
	r.Handle(path+"*", handler)

	r.Get("/tables/{tableID}/receipt.txt", receiptHandler(svc, m, "text"))
	r.Get("/tables/{tableID}/receipt.pdf", receiptHandler(svc, m, "pdf"))

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

// receiptHandler renders a table's current split as text or PDF.
func receiptHandler(src receiptSource, m *metrics.Metrics, format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID := chi.URLParam(r, "tableID")
		summary, err := src.Receipt(r.Context(), tableID)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "table not found", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("Failed to build receipt", "table_id", tableID, "error", err)
			http.Error(w, "failed to build receipt", http.StatusInternalServerError)
			return
		}

		// Render fully before writing so a failure can still set the status
		var buf bytes.Buffer
		contentType := "text/plain; charset=utf-8"
		if format == "pdf" {
			contentType = "application/pdf"
			err = receipt.WritePDF(&buf, summary)
		} else {
			err = receipt.WriteText(&buf, summary)
		}
		if err != nil {
			slog.Error("Failed to render receipt", "table_id", tableID, "format", format, "error", err)
			http.Error(w, "failed to render receipt", http.StatusInternalServerError)
			return
		}

		m.ReceiptsRendered.WithLabelValues(format).Inc()
		w.Header().Set("Content-Type", contentType)
		w.Write(buf.Bytes())
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
