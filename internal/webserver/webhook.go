package webserver

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strings"

	"github.com/tistolabs/ruleta-overlay/internal/env"
	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"github.com/tistolabs/ruleta-overlay/internal/types"
	"go.uber.org/zap"
)

// tikfinityPayload is the relay's positional webhook body: value1 is the
// gifting username, value2 free text, value3 the gift sku (null means
// "pick a segment implicitly"). The shared secret may arrive in the body
// or in the X-Tikfinity-Token header.
type tikfinityPayload struct {
	Value1 string  `json:"value1"`
	Value2 string  `json:"value2"`
	Value3 *string `json:"value3"`
	Secret string  `json:"secret,omitempty"`
}

// swapped in tests for a deterministic segment pick
var pickSegmentIndex = rand.Intn

// handleTikfinityWebhook validates the shared secret, translates the
// payload into a SpinRequest and enqueues it. The wheel core never sees
// unauthenticated input.
func handleTikfinityWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload tikfinityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !webhookTokenValid(r, payload.Secret) {
		logger.Warn("Webhook rejected: invalid token",
			zap.String("remote", r.RemoteAddr))
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	req := buildSpinRequest("gift", payload.Value1, payload.Value2, payload.Value3)
	wheelMachine.EnqueueSpin(req)

	logger.Info("Webhook spin request accepted",
		zap.String("username", req.Username),
		zap.Stringp("sku", req.Sku))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"username": req.Username,
	})
}

func webhookTokenValid(r *http.Request, bodySecret string) bool {
	secret := env.Value.WebhookSecret
	if secret == "" {
		// refuse everything rather than run open
		return false
	}

	if token := r.Header.Get("X-Tikfinity-Token"); token != "" {
		return token == secret
	}
	return bodySecret == secret
}

// buildSpinRequest translates relay fields into a SpinRequest. Segment
// choice happens here, on the transport side: a sku is matched against
// segment id then label; an absent or unknown sku picks a random segment.
// The wheel core itself never chooses randomly.
func buildSpinRequest(eventType, username, text string, sku *string) types.SpinRequest {
	if strings.TrimSpace(username) == "" {
		username = "Anónimo"
	}

	req := types.SpinRequest{
		Type:     eventType,
		Username: username,
		Text:     text,
		Sku:      sku,
	}

	segments := segmentMirror.Snapshot()
	if len(segments) == 0 {
		return req
	}

	idx := -1
	if sku != nil && strings.TrimSpace(*sku) != "" {
		wanted := strings.TrimSpace(*sku)
		for i, seg := range segments {
			if seg.ID == wanted || strings.EqualFold(seg.Text, wanted) {
				idx = i
				break
			}
		}
		if idx < 0 {
			logger.Debug("Unknown sku, picking random segment",
				zap.String("sku", wanted))
		}
	}
	if idx < 0 {
		idx = pickSegmentIndex(len(segments))
	}

	seg := segments[idx]
	req.SegmentIndex = &idx
	req.Segment = &types.PartialSegment{ID: seg.ID, Text: seg.Text, Color: seg.Color}
	return req
}
