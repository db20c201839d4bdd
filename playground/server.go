// Package playground serves the HTTP run endpoint used by the browser
// playground. Every run happens in a separate worker process.
package playground

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oarkflow/json"
	"github.com/oarkflow/log"

	"github.com/oarkflow/jatti"
	"github.com/oarkflow/jatti/config"
)

type Server struct {
	cfg     config.Config
	runner  Runner
	limiter *RateLimiter
	logger  *log.Logger
}

func NewServer(cfg config.Config, runner Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = &log.Logger{Level: log.ParseLevel(cfg.LogLevel), Writer: &log.IOWriter{Writer: io.Discard}}
	}
	return &Server{
		cfg:     cfg,
		runner:  runner,
		limiter: NewRateLimiter(cfg.RateWindow(), cfg.RateMaxReq),
		logger:  logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/run", s.handleRun)
	mux.HandleFunc("/api/builtins", s.handleBuiltins)
	return cors(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("playground listening")
		errCh <- srv.ListenAndServe()
	}()

	ticker := time.NewTicker(s.cfg.RateWindow())
	defer ticker.Stop()
	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ticker.C:
			s.limiter.Prune()
		case <-ctx.Done():
			s.logger.Info().Msg("playground shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

func failure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		failure(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleBuiltins lists the built-in function names for editor completion.
func (s *Server) handleBuiltins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		failure(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"builtins": jatti.Builtins()})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ip := clientIP(r)
	status, res := s.run(r, ip)
	if status != http.StatusOK {
		failure(w, status, res.Output)
	} else {
		writeJSON(w, status, res)
	}
	s.logger.Info().
		Str("ip", ip).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Bool("timedOut", res.TimedOut).
		Msg("run")
}

// run checks a request and executes it. Rejections return the status and
// carry the message in Output.
func (s *Server) run(r *http.Request, ip string) (int, Result) {
	if r.Method != http.MethodPost {
		return http.StatusMethodNotAllowed, Result{Output: "Method not allowed"}
	}
	if !s.limiter.Allow(ip) {
		return http.StatusTooManyRequests, Result{Output: "Rate limit exceeded"}
	}
	if s.cfg.APIKey != "" && strings.TrimSpace(r.Header.Get("X-API-Key")) != s.cfg.APIKey {
		return http.StatusUnauthorized, Result{Output: "Unauthorized"}
	}
	if r.ContentLength > int64(s.cfg.MaxCodeBytes) {
		return http.StatusRequestEntityTooLarge, Result{Output: "Code too large"}
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, int64(s.cfg.MaxCodeBytes)+1))
	if err != nil {
		return http.StatusBadRequest, Result{Output: "Missing code"}
	}
	if len(body) > s.cfg.MaxCodeBytes {
		return http.StatusRequestEntityTooLarge, Result{Output: "Code too large"}
	}
	var req map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			req = nil
		}
	}
	code, _ := req["code"].(string)
	if strings.TrimSpace(code) == "" {
		return http.StatusBadRequest, Result{Output: "Missing code"}
	}
	return http.StatusOK, s.runner.Run(r.Context(), code)
}
