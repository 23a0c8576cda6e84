package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/oke1234/goalmatch/pkg/domain"
)

// matchRequest is the body of both match endpoints; groups are ignored in
// user mode
type matchRequest struct {
	Users  []domain.UserInput  `json:"users"`
	Groups []domain.GroupInput `json:"groups"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// matchHandler runs user-to-user matching. Malformed or empty input gets the
// empty best-to-worst result with status 200; that is the documented
// degenerate-input contract, not an error.
func (s *Server) matchHandler(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Users) == 0 {
		renderJSON(w, r, http.StatusOK, domain.EmptyMatchResult())
		return
	}

	result, err := s.matcher.MatchUsers(r.Context(), domain.NormalizeUsers(req.Users))
	if err != nil {
		log.Printf("[ERROR] match failed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, result)
}

// matchGroupsHandler runs user-to-group matching with the same
// degenerate-input contract as matchHandler
func (s *Server) matchGroupsHandler(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Users) == 0 || len(req.Groups) == 0 {
		renderJSON(w, r, http.StatusOK, domain.EmptyGroupMatchResult())
		return
	}

	result, err := s.matcher.MatchGroups(r.Context(), domain.NormalizeUsers(req.Users), domain.NormalizeGroups(req.Groups))
	if err != nil {
		log.Printf("[ERROR] group match failed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, result)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
