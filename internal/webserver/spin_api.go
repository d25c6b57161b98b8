package webserver

import (
	"encoding/json"
	"net/http"

	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"github.com/tistolabs/ruleta-overlay/internal/version"
	"go.uber.org/zap"
)

type testSpinRequest struct {
	Sku      *string `json:"sku"`
	Username string  `json:"username"`
	Text     string  `json:"text"`
}

// handleTestSpin lets an operator exercise the full pipeline without the
// live relay. The result is informational; the request rides the same
// queue as real events.
func handleTestSpin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body testSpinRequest
	if r.Body != nil {
		// an empty body is fine, every field has a default
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	if body.Username == "" {
		body.Username = "TestUser"
	}
	if body.Text == "" {
		body.Text = "Test gift"
	}

	req := buildSpinRequest("test", body.Username, body.Text, body.Sku)
	wheelMachine.EnqueueSpin(req)

	logger.Info("Test spin queued",
		zap.String("username", req.Username),
		zap.Stringp("sku", req.Sku))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Test spin queued",
		"request": req,
	})
}

// handleStatus returns the observer snapshot: playback state, segment
// count, queue depth and the most recent outcome.
func handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wheelMachine.Status())
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"version": version.Version,
		"build":   version.String(),
	})
}

// handleHistory returns the rolling list of resolved outcomes, most
// recent first.
func handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"history": wheelMachine.History(),
	})
}
