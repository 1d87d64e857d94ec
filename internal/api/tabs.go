package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/egorcha174/fusion-new-sub001/internal/dashboard"
	"github.com/egorcha174/fusion-new-sub001/internal/grid"
)

func (s *Server) handleListTabs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.layout.Tabs())
}

func (s *Server) handleGetTab(w http.ResponseWriter, r *http.Request) {
	tab, err := s.layout.Tab(chi.URLParam(r, "id"))
	if err != nil {
		writeNotFound(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tab)
}

type createTabRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateTab(w http.ResponseWriter, r *http.Request) {
	var req createTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	tab, err := s.layout.CreateTab(r.Context(), req.Name)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tab)
}

func (s *Server) handleRenameTab(w http.ResponseWriter, r *http.Request) {
	var req createTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	if err := s.layout.RenameTab(r.Context(), chi.URLParam(r, "id"), req.Name); err != nil {
		s.writeLayoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"renamed": true})
}

func (s *Server) handleDeleteTab(w http.ResponseWriter, r *http.Request) {
	if err := s.layout.DeleteTab(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeLayoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":    true,
		"active_tab": s.layout.ActiveTab(),
	})
}

func (s *Server) handleGetActiveTab(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"active_tab": s.layout.ActiveTab()})
}

type setActiveTabRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleSetActiveTab(w http.ResponseWriter, r *http.Request) {
	var req setActiveTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := s.layout.SetActiveTab(r.Context(), req.ID); err != nil {
		s.writeLayoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active_tab": req.ID})
}

func (s *Server) handleUpdateGridSettings(w http.ResponseWriter, r *http.Request) {
	var settings grid.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := s.layout.UpdateGridSettings(r.Context(), chi.URLParam(r, "id"), settings); err != nil {
		s.writeLayoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Layout command responses always carry the tab's current layout, changed
// or not: a rejected drag snaps back on the client because the unchanged
// layout is re-presented, not because an error arrives.

type placeDeviceRequest struct {
	DeviceID   string `json:"device_id"`
	TemplateID string `json:"template_id,omitempty"`
}

// handlePlaceDevice adds a device at the first free block. A full grid is
// not an error: placed=false and the unchanged layout report it.
func (s *Server) handlePlaceDevice(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "id")
	var req placeDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.DeviceID == "" {
		writeBadRequest(w, "device_id is required")
		return
	}
	placed, err := s.layout.AddDevice(r.Context(), tabID, req.DeviceID, req.TemplateID)
	if err != nil {
		s.writeLayoutError(w, err)
		return
	}
	s.writeLayoutResult(w, tabID, "placed", placed)
}

type moveDeviceRequest struct {
	DeviceID string  `json:"device_id"`
	Col      float64 `json:"col"`
	Row      float64 `json:"row"`
}

func (s *Server) handleMoveDevice(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "id")
	var req moveDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	moved, err := s.layout.MoveDevice(r.Context(), tabID, req.DeviceID, req.Col, req.Row)
	if err != nil {
		s.writeLayoutError(w, err)
		return
	}
	s.writeLayoutResult(w, tabID, "moved", moved)
}

type resizeDeviceRequest struct {
	DeviceID string  `json:"device_id"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

func (s *Server) handleResizeDevice(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "id")
	var req resizeDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	resized, err := s.layout.ResizeDevice(r.Context(), tabID, req.DeviceID, req.Width, req.Height)
	if err != nil {
		s.writeLayoutError(w, err)
		return
	}
	s.writeLayoutResult(w, tabID, "resized", resized)
}

func (s *Server) handleRemoveDevice(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "id")
	removed, err := s.layout.RemoveDevice(r.Context(), tabID, chi.URLParam(r, "deviceID"))
	if err != nil {
		s.writeLayoutError(w, err)
		return
	}
	s.writeLayoutResult(w, tabID, "removed", removed)
}

func (s *Server) writeLayoutResult(w http.ResponseWriter, tabID, verb string, ok bool) {
	tab, err := s.layout.Tab(tabID)
	if err != nil {
		s.writeLayoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		verb:     ok,
		"layout": tab.Layout,
	})
}

func (s *Server) writeLayoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrTabNotFound), errors.Is(err, dashboard.ErrTemplateNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, dashboard.ErrInvalidGridSettings):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		writeInternalError(w, err.Error())
	}
}
