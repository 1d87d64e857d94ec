package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/egorcha174/fusion-new-sub001/internal/hass"
)

// writePlatformError maps client call failures onto HTTP statuses: no
// connection is 503, a broker timeout 504, a platform-reported error 502.
func writePlatformError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hass.ErrNotConnected), errors.Is(err, hass.ErrDisconnected):
		writeNotConnected(w)
	case errors.Is(err, hass.ErrCallTimeout):
		writeError(w, http.StatusGatewayTimeout, ErrCodeCallTimeout, err.Error())
	default:
		writeError(w, http.StatusBadGateway, ErrCodePlatform, err.Error())
	}
}

func (s *Server) handlePlatformConfig(w http.ResponseWriter, r *http.Request) {
	info, err := s.platform.PlatformConfig(r.Context())
	if err != nil {
		writePlatformError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type signPathRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleSignPath(w http.ResponseWriter, r *http.Request) {
	var req signPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Path == "" {
		writeBadRequest(w, "path is required")
		return
	}
	signed, err := s.platform.SignPath(r.Context(), req.Path)
	if err != nil {
		writePlatformError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": signed})
}

func (s *Server) handleCameraStream(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "id")
	url, err := s.platform.CameraStreamURL(r.Context(), entityID)
	if err != nil {
		writePlatformError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}

// handleHistory proxies the platform's compressed history query.
// Query params: entity_ids (comma separated, required), start and end
// (RFC 3339; default last 24 hours ending now).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := strings.TrimSpace(q.Get("entity_ids"))
	if raw == "" {
		writeBadRequest(w, "entity_ids is required")
		return
	}
	var entityIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			entityIDs = append(entityIDs, id)
		}
	}
	if len(entityIDs) == 0 {
		writeBadRequest(w, "entity_ids is required")
		return
	}

	end := time.Now()
	start := end.Add(-24 * time.Hour)
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeBadRequest(w, "start must be RFC 3339")
			return
		}
		start = t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeBadRequest(w, "end must be RFC 3339")
			return
		}
		end = t
	}
	if !end.After(start) {
		writeBadRequest(w, "end must be after start")
		return
	}

	samples, err := s.platform.History(r.Context(), entityIDs, start, end)
	if err != nil {
		writePlatformError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, samples)
}
