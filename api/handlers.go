package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oomph-ac/verdict/combat"
	"github.com/oomph-ac/verdict/entity"
	"github.com/oomph-ac/verdict/internal"
	"github.com/oomph-ac/verdict/match"
	"github.com/oomph-ac/verdict/movement"
	"github.com/oomph-ac/verdict/world"
)

func (h *handlers) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var state entity.WorldState
	if !decode(w, r, &state) {
		return
	}
	if err := h.registry.RecordWorldState(r.Context(), chi.URLParam(r, "match"), state); err != nil {
		h.unavailable(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleHit(w http.ResponseWriter, r *http.Request) {
	var req combat.HitRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.registry.ValidateHit(r.Context(), chi.URLParam(r, "match"), req)
	if err != nil {
		h.unavailable(w, err)
		return
	}
	writeJSON(w, res)
}

func (h *handlers) handleMovement(w http.ResponseWriter, r *http.Request) {
	var u movement.Update
	if !decode(w, r, &u) {
		return
	}
	check, err := h.registry.ValidateMovement(r.Context(), chi.URLParam(r, "match"), u)
	if err != nil {
		h.unavailable(w, err)
		return
	}
	writeJSON(w, check)
}

func (h *handlers) handleSetPlayerState(w http.ResponseWriter, r *http.Request) {
	var s movement.PlayerMovementState
	if !decode(w, r, &s) {
		return
	}
	if err := h.registry.SetPlayerState(r.Context(), chi.URLParam(r, "match"), chi.URLParam(r, "player"), s); err != nil {
		h.unavailable(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleGetPlayerState(w http.ResponseWriter, r *http.Request) {
	s, ok, err := h.registry.PlayerState(r.Context(), chi.URLParam(r, "match"), chi.URLParam(r, "player"))
	if err != nil {
		h.unavailable(w, err)
		return
	}
	if !ok {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	writeJSON(w, s)
}

func (h *handlers) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.RemovePlayer(r.Context(), chi.URLParam(r, "match"), chi.URLParam(r, "player")); err != nil {
		h.unavailable(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleSetObstacles(w http.ResponseWriter, r *http.Request) {
	var obstacles []world.Obstacle
	if !decode(w, r, &obstacles) {
		return
	}
	if err := h.registry.SetObstacles(r.Context(), chi.URLParam(r, "match"), obstacles); err != nil {
		h.unavailable(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleClearObstacles(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.ClearObstacles(r.Context(), chi.URLParam(r, "match")); err != nil {
		h.unavailable(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleRemoveMatch(w http.ResponseWriter, r *http.Request) {
	if !h.registry.Remove(chi.URLParam(r, "match")) {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// unavailable writes the error of an operation that could not run. Hitting the match limit is reported
// as 429, everything else as 503.
func (h *handlers) unavailable(w http.ResponseWriter, err error) {
	h.log.Warn("validation unavailable", "err", err)
	status := http.StatusServiceUnavailable
	if errors.Is(err, match.ErrMatchLimit) {
		status = http.StatusTooManyRequests
	}
	http.Error(w, err.Error(), status)
}

// decode decodes the JSON body of the request into v, writing a 400 response if it is malformed.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	buf := internal.GetBuffer()
	defer internal.PutBuffer(buf)
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}
