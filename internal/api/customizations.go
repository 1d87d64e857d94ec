package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/egorcha174/fusion-new-sub001/internal/device"
)

func (s *Server) handleListCustomizations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.layout.Customizations())
}

func (s *Server) handleSetCustomization(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")
	var cust device.Customization
	if err := json.NewDecoder(r.Body).Decode(&cust); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if cust.Type != nil && !cust.Type.Valid() {
		writeBadRequest(w, "unknown device type")
		return
	}
	if err := s.layout.SetCustomization(r.Context(), deviceID, cust); err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"device_id": deviceID, "customization": cust})
}

func (s *Server) handleDeleteCustomization(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")
	if err := s.layout.DeleteCustomization(r.Context(), deviceID); err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
