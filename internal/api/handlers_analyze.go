package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/address-guard/internal/classifier"
	"github.com/address-guard/internal/diff"
	"github.com/address-guard/internal/segment"
	"github.com/address-guard/internal/service"
	"github.com/address-guard/internal/store"
	"github.com/address-guard/internal/types"
)

// AnalyzeRequest is the body of POST /api/analyze. Sequence is optional;
// when set the analysis only commits if it is still the latest issued.
type AnalyzeRequest struct {
	Address  string  `json:"address"`
	Sequence *uint64 `json:"sequence,omitempty"`
}

// AnalyzeResponse wraps a possibly absent result
type AnalyzeResponse struct {
	Analyzed bool            `json:"analyzed"`
	Result   *service.Result `json:"result,omitempty"`
}

// handleAnalyze handles POST /api/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	var (
		res *service.Result
		err error
	)
	if req.Sequence != nil {
		res, err = s.engine.AnalyzeLatest(r.Context(), *req.Sequence, req.Address)
	} else {
		res, err = s.engine.Analyze(r.Context(), req.Address)
	}
	if err != nil {
		respondCategorized(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{Analyzed: res != nil, Result: res})
}

// handleNextSequence handles POST /api/sequence, issuing the number a
// client attaches to its next debounced analyze call
func (s *Server) handleNextSequence(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]uint64{
		"sequence": s.engine.Sequencer().Begin(),
	})
}

// DiffRequest is the body of POST /api/diff
type DiffRequest struct {
	Reference  string `json:"reference"`
	Candidate  string `json:"candidate"`
	IgnoreCase bool   `json:"ignoreCase"`
}

// DiffResponse carries every position so no single mismatch is hidden
type DiffResponse struct {
	Cells      []diff.Cell `json:"cells"`
	Mismatches []int       `json:"mismatches"`
	AllMatch   bool        `json:"allMatch"`
	Identical  bool        `json:"identical"`
}

// handleDiff handles POST /api/diff
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req DiffRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	cells := diff.Compare(req.Reference, req.Candidate, req.IgnoreCase)
	respondJSON(w, http.StatusOK, DiffResponse{
		Cells:      cells,
		Mismatches: diff.Mismatches(cells),
		AllMatch:   diff.AllMatch(cells),
		Identical:  diff.Identical(req.Reference, req.Candidate),
	})
}

// ClassifyResponse is the shape-only view of an address. It needs no
// hashing, so it stays available while the hasher is blocked.
type ClassifyResponse struct {
	Address    string            `json:"address"`
	Network    types.NetworkType `json:"network"`
	Valid      bool              `json:"valid"`
	Suspicious bool              `json:"suspicious"`
	Trusted    bool              `json:"trusted"`
	TrustScore int               `json:"trustScore"`
	Segments   segment.Segments  `json:"segments"`
}

// handleClassify handles GET /api/classify/{address}
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(mux.Vars(r)["address"])
	if address == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Address parameter required", nil)
		return
	}

	policy := s.engine.Policy()
	valid := policy.IsValid(address)
	trusted := s.engine.Store().IsTrusted(address)

	respondJSON(w, http.StatusOK, ClassifyResponse{
		Address:    address,
		Network:    classifier.Classify(address),
		Valid:      valid,
		Suspicious: !valid,
		Trusted:    trusted,
		TrustScore: store.TrustScoreFor(address, valid, trusted),
		Segments:   s.engine.Segments(address),
	})
}

// UnlockRequest is the body of POST /api/unlock
type UnlockRequest struct {
	Address string `json:"address"`
	Key     string `json:"key"`
}

// handleUnlock handles POST /api/unlock. A correct key releases the copy
// tail the user re-checks after pasting.
func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req UnlockRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if !service.VerifyUnlockKey(req.Address, req.Key) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"unlocked": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"unlocked": true,
		"copyTail": service.CopyTail(req.Address),
	})
}
