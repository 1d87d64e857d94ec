package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/egorcha174/fusion-new-sub001/internal/dashboard"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.layout.Templates())
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.layout.Template(chi.URLParam(r, "id"))
	if err != nil {
		writeNotFound(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl dashboard.CardTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if tpl.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	tpl.ID = "" // server assigns ids on create
	saved, err := s.layout.SaveTemplate(r.Context(), tpl)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl dashboard.CardTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	tpl.ID = chi.URLParam(r, "id")
	if _, err := s.layout.Template(tpl.ID); err != nil {
		writeNotFound(w, err.Error())
		return
	}
	saved, err := s.layout.SaveTemplate(r.Context(), tpl)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.layout.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeLayoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
