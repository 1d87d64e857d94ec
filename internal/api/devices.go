package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/egorcha174/fusion-new-sub001/internal/device"
)

// aggregateInput assembles the raw tables and customizations one
// aggregation or mapping pass needs.
func (s *Server) aggregateInput(showHidden bool) device.AggregateInput {
	store := s.platform.Store()
	return device.AggregateInput{
		Entities:       store.Entities(),
		Areas:          store.Areas(),
		Physical:       store.Devices(),
		Registry:       store.RegistryEntries(),
		Customizations: s.layout.Customizations(),
		ShowHidden:     showHidden,
	}
}

// handleListRooms returns the room-grouped device model. ?show_hidden=true
// includes devices hidden by customization.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	showHidden := r.URL.Query().Get("show_hidden") == "true"
	writeJSON(w, http.StatusOK, device.MapEntitiesToRooms(s.aggregateInput(showHidden)))
}

// handleListPhysicalRooms returns rooms grouped by physical device, for
// whole-device cards.
func (s *Server) handleListPhysicalRooms(w http.ResponseWriter, r *http.Request) {
	showHidden := r.URL.Query().Get("show_hidden") == "true"
	writeJSON(w, http.StatusOK, device.MapToRoomsWithPhysicalDevices(s.aggregateInput(showHidden)))
}

// handleListDevices returns every mapped device as a flat list.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	showHidden := r.URL.Query().Get("show_hidden") == "true"
	customizations := s.layout.Customizations()

	devices := make([]device.Device, 0)
	for _, e := range s.platform.Store().Entities() {
		cust := customizations[e.EntityID]
		d := device.MapEntity(e, cust, nil)
		if d == nil {
			s.logger.Debug("skipping unmappable entity", "entity_id", e.EntityID)
			continue
		}
		if d.Hidden && !showHidden {
			continue
		}
		devices = append(devices, *d)
	}
	writeJSON(w, http.StatusOK, devices)
}

// handleGetDevice returns one mapped device by entity id. A layout entry
// whose device has vanished resolves here to 404 and the dashboard drops
// the card; it is never an error on the layout side.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := s.platform.Store().Entity(id)
	if !ok {
		writeNotFound(w, "device not found: "+id)
		return
	}
	d := device.MapEntity(e, s.layout.Customizations()[id], nil)
	if d == nil {
		writeNotFound(w, "device not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleLowBattery returns devices whose battery level sits at or below
// the configured low-battery threshold, for the battery widget.
func (s *Server) handleLowBattery(w http.ResponseWriter, _ *http.Request) {
	customizations := s.layout.Customizations()
	threshold := s.dashCfg.LowBatteryThreshold

	low := make([]device.Device, 0)
	for _, e := range s.platform.Store().Entities() {
		cust := customizations[e.EntityID]
		d := device.MapEntity(e, cust, nil)
		if d == nil || d.BatteryLevel == nil {
			continue
		}
		limit := threshold
		if cust.LowBatteryThreshold != nil {
			limit = *cust.LowBatteryThreshold
		}
		if *d.BatteryLevel <= limit {
			low = append(low, *d)
		}
	}
	writeJSON(w, http.StatusOK, low)
}

// serviceCallRequest is the body of POST /devices/{id}/service.
type serviceCallRequest struct {
	Domain  string         `json:"domain"`
	Service string         `json:"service"`
	Data    map[string]any `json:"data,omitempty"`
}

// handleCallService invokes a platform service targeting the device's
// entity. Fire and forget: acceptance means the command was written to
// the socket, and the outcome arrives as a state_changed event.
func (s *Server) handleCallService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req serviceCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Domain == "" || req.Service == "" {
		writeBadRequest(w, "domain and service are required")
		return
	}

	if err := s.platform.CallService(req.Domain, req.Service, id, req.Data); err != nil {
		writeNotConnected(w)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true})
}
