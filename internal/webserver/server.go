package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tistolabs/ruleta-overlay/internal/broadcast"
	"github.com/tistolabs/ruleta-overlay/internal/registry"
	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"github.com/tistolabs/ruleta-overlay/internal/wheel"
	"go.uber.org/zap"
)

var (
	httpServer *http.Server

	wheelMachine  *wheel.Machine
	segmentMirror *registry.Mirror
	adminSession  *registry.Session
)

// webSocketBroadcaster bridges broadcast.Send calls onto the WS hub.
type webSocketBroadcaster struct{}

func (w *webSocketBroadcaster) BroadcastEvent(eventType string, data interface{}) {
	BroadcastWSMessage(eventType, data)
}

// Setup wires the core components the handlers operate on. Must be called
// before StartWebServer.
func Setup(machine *wheel.Machine, mirror *registry.Mirror, session *registry.Session, committer registry.Committer) {
	wheelMachine = machine
	segmentMirror = mirror
	adminSession = session
	segmentCommitter = committer
}

// corsMiddleware adds CORS headers so the overlay page can call the API
// from a different origin.
func corsMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Tikfinity-Token")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler(w, r)
	}
}

func StartWebServer(port int) error {
	// Register the WebSocket hub as the global broadcaster so core
	// packages can publish without importing this package.
	broadcast.SetBroadcaster(&webSocketBroadcaster{})

	mux := http.NewServeMux()

	// Webhook ingestion
	mux.HandleFunc("/webhook/tikfinity", corsMiddleware(handleTikfinityWebhook))

	// Wheel API endpoints
	mux.HandleFunc("/api/test-spin", corsMiddleware(handleTestSpin))
	mux.HandleFunc("/api/status", corsMiddleware(handleStatus))
	mux.HandleFunc("/api/history", corsMiddleware(handleHistory))
	mux.HandleFunc("/api/version", corsMiddleware(handleVersion))

	// Segment registry endpoints
	mux.HandleFunc("/api/segments", corsMiddleware(handleSegments))
	mux.HandleFunc("/api/segments/session", corsMiddleware(handleSegmentSession))
	mux.HandleFunc("/api/segments/session/", corsMiddleware(handleSegmentSessionAction))

	// WebSocket endpoint
	RegisterWebSocketRoute(mux)

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Starting web server", zap.String("address", addr))

	httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start in a goroutine and wait briefly to catch immediate binding
	// errors.
	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("Failed to start web server", zap.Error(err))
			return fmt.Errorf("failed to start web server on port %d: %w", port, err)
		}
	case <-time.After(100 * time.Millisecond):
		// Server started successfully
	}

	return nil
}

// Shutdown gracefully shuts down the web server.
func Shutdown() {
	if httpServer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown web server gracefully", zap.Error(err))
	} else {
		logger.Info("Web server shutdown complete")
	}
}
