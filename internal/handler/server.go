package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (h *Handler) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Telegram-Init-Data")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// vkHealthHandler answers for the VK bot, which is not implemented yet.
func (h *Handler) vkHealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true, "vk_stub": true})
}

// Router builds the HTTP routes served next to the bot.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.corsMiddleware)

	r.HandleFunc("/health", h.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/vk/health", h.vkHealthHandler).Methods(http.MethodGet)

	if h.feed != nil {
		r.HandleFunc("/ws/drivers", h.feed.ServeWS).Methods(http.MethodGet)
	}

	r.Handle("/miniapp", http.RedirectHandler("/miniapp/", http.StatusMovedPermanently))
	r.PathPrefix("/miniapp/").Handler(http.StripPrefix("/miniapp/", http.FileServer(http.Dir(h.cfg.MiniAppDir))))

	return r
}

// StartWebServer serves Router until ctx is done.
func (h *Handler) StartWebServer(ctx context.Context) {
	server := &http.Server{
		Addr:           h.cfg.GetServerAddress(),
		Handler:        h.Router(),
		ReadTimeout:    h.cfg.ReadTimeout,
		WriteTimeout:   h.cfg.WriteTimeout,
		IdleTimeout:    h.cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	h.logger.Info("Starting web server", zap.String("address", server.Addr))
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("Web server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	h.logger.Info("Shutting down web server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		h.logger.Error("Server shutdown error", zap.Error(err))
	}
}
