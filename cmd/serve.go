package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/member-platform/member-qa/internal/config"
	"github.com/member-platform/member-qa/internal/qa"
	"github.com/member-platform/member-qa/internal/source"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the QA API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cache := source.NewCache(newSourceClient())
		engine := qa.NewEngine()

		// Warm the cache so the first /ask does not pay the fetch; a
		// failed warm-up is non-fatal, the next request retries.
		if _, err := cache.Get(ctx); err != nil {
			zap.L().Warn("could not warm message cache", zap.Error(err))
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(cache, engine, cfg.Server),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// newRouter builds the API router: discovery, health and the /ask endpoint.
func newRouter(cache *source.Cache, engine *qa.Engine, serverCfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	origins := serverCfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"service": "Member Data QA System",
			"endpoints": map[string]string{
				"/ask":    "POST - Ask a question about member data",
				"/health": "GET - Health check",
			},
		})
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Post("/ask", handleAsk(cache, engine))

	return r
}

// handleAsk validates the question, fetches the cached message set and runs
// the QA engine. The engine itself never fails; only input validation and
// the upstream fetch produce error statuses.
func handleAsk(cache *source.Cache, engine *qa.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body askRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(body.Question) == "" {
			writeError(w, http.StatusBadRequest, "question cannot be empty")
			return
		}

		records, err := cache.Get(req.Context())
		if err != nil {
			zap.L().Error("fetch member messages", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "failed to fetch member data")
			return
		}
		if len(records) == 0 {
			writeJSON(w, http.StatusOK, askResponse{Answer: "No member data available at the moment."})
			return
		}

		writeJSON(w, http.StatusOK, askResponse{Answer: engine.Answer(body.Question, records)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs each request with method, path, status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		zap.L().Info("request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
