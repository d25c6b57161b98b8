package webserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tistolabs/ruleta-overlay/internal/registry"
	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"github.com/tistolabs/ruleta-overlay/internal/types"
	"go.uber.org/zap"
)

// handleSegments serves the live segment list and accepts the direct
// admin commit: the full edited list in, the accepted normalized list
// echoed back. On success the mirror is replaced and every overlay gets a
// segments-updated event; on failure nothing changes.
func handleSegments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(segmentMirror.Snapshot())

	case http.MethodPost:
		var segments []types.Segment
		if err := json.NewDecoder(r.Body).Decode(&segments); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		accepted, err := commitSegments(segments)
		if err != nil {
			logger.Error("Segment commit failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(accepted)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// segmentCommitter persists the accepted list; wired by Setup. The direct
// commit path shares it with the staged session so both paths validate and
// persist identically.
var segmentCommitter registry.Committer

func commitSegments(segments []types.Segment) ([]types.Segment, error) {
	if segmentCommitter == nil {
		return nil, errors.New("segment committer not configured")
	}

	accepted, err := segmentCommitter(segments)
	if err != nil {
		return nil, err
	}

	segmentMirror.Replace(accepted)
	return accepted, nil
}

// handleSegmentSession serves the staged (uncommitted) admin edit buffer.
func handleSegmentSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"staged": adminSession.Staged(),
	})
}

type sessionEditRequest struct {
	Position int    `json:"position"`
	Field    string `json:"field,omitempty"`
	Value    string `json:"value,omitempty"`
}

// handleSegmentSessionAction routes /api/segments/session/{action}.
func handleSegmentSessionAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	action := strings.TrimPrefix(r.URL.Path, "/api/segments/session/")
	switch action {
	case "add":
		segment, err := adminSession.Add()
		if err != nil {
			logger.Error("Failed to add staged segment", zap.Error(err))
			http.Error(w, "Failed to add segment", http.StatusInternalServerError)
			return
		}
		writeSessionResponse(w, map[string]interface{}{
			"success": true,
			"segment": segment,
			"staged":  adminSession.Staged(),
		})

	case "remove":
		var req sessionEditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := adminSession.Remove(req.Position); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeSessionResponse(w, map[string]interface{}{
			"success": true,
			"staged":  adminSession.Staged(),
		})

	case "update":
		var req sessionEditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := adminSession.UpdateField(req.Position, req.Field, req.Value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeSessionResponse(w, map[string]interface{}{
			"success": true,
			"staged":  adminSession.Staged(),
		})

	case "commit":
		accepted, err := adminSession.Commit()
		if err != nil {
			logger.Error("Staged segment commit failed", zap.Error(err))
			// staged edits survive so the operator can retry
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		writeSessionResponse(w, map[string]interface{}{
			"success":  true,
			"segments": accepted,
		})

	case "reset":
		adminSession.Reset()
		writeSessionResponse(w, map[string]interface{}{
			"success": true,
			"staged":  adminSession.Staged(),
		})

	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func writeSessionResponse(w http.ResponseWriter, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}
