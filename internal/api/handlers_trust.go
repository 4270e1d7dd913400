package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/address-guard/internal/types"
)

// handleListTrust handles GET /api/trust
func (s *Server) handleListTrust(w http.ResponseWriter, r *http.Request) {
	list := s.engine.Store().TrustedAddresses()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trusted": list,
		"count":   len(list),
	})
}

// handleSetTrust handles PUT /api/trust/{address} with an optional
// {"label": "..."} body
func (s *Server) handleSetTrust(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	var req struct {
		Label *string `json:"label,omitempty"`
	}
	if err := parseOptionalJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := s.engine.Trust(r.Context(), address, req.Label); err != nil {
		respondCategorized(w, err)
		return
	}

	entry, _ := s.engine.Store().LookupTrust(address)
	respondJSON(w, http.StatusOK, types.TrustedAddress{
		Address: address,
		AddedAt: entry.AddedAt,
		Label:   entry.Label,
	})
}

// handleUnsetTrust handles DELETE /api/trust/{address}
func (s *Server) handleUnsetTrust(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	if err := s.engine.Untrust(r.Context(), address); err != nil {
		respondCategorized(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHistory handles GET /api/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history := s.engine.Store().History()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
		"count":   len(history),
		"max":     s.engine.Store().HistoryMax(),
	})
}
