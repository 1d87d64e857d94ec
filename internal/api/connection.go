package api

import (
	"net/http"
)

// handleConnectionStatus reports the platform connection state machine's
// current state, diagnostic message, and bootstrap progress.
func (s *Server) handleConnectionStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.platform.Status())
}

// handleConnect runs the connect sequence: any prior session is torn down
// first, then the dial, auth handshake, and bootstrap run synchronously.
// There is no automatic retry; reconnection is always this user action.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if err := s.platform.Connect(r.Context()); err != nil {
		// The state machine already holds the human-readable diagnosis;
		// surface it alongside the failed status.
		writeJSON(w, http.StatusBadGateway, s.platform.Status())
		return
	}
	writeJSON(w, http.StatusOK, s.platform.Status())
}

// handleDisconnect closes the platform session and clears the live mirror.
func (s *Server) handleDisconnect(w http.ResponseWriter, _ *http.Request) {
	s.platform.Disconnect()
	writeJSON(w, http.StatusOK, s.platform.Status())
}
