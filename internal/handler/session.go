package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kmdiallo/gescom-pos/internal/session"
)

type openSessionRequest struct {
	Operator    operatorView `json:"operator"`
	WarehouseID int64        `json:"warehouse_id"`
}

// openSession starts a terminal session for an operator. The warehouse may be
// selected later; cart additions are rejected until one is set.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Operator.Username == "" {
		writeError(w, http.StatusBadRequest, "operator username is required")
		return
	}

	sess := h.sessions.Open(session.Operator{
		Role:     req.Operator.Role,
		Email:    req.Operator.Email,
		Username: req.Operator.Username,
	}, req.WarehouseID)

	writeJSON(w, http.StatusCreated, toSessionView(sess))
}

// closeSession ends the current session, discarding its cart and any open
// checkout draft.
func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	h.sessions.Close(sess.Token)
	w.WriteHeader(http.StatusNoContent)
}

type selectWarehouseRequest struct {
	WarehouseID int64 `json:"warehouse_id"`
}

// selectWarehouse changes the warehouse new cart lines are drawn from.
// Existing lines keep the warehouse they were added against.
func (h *Handler) selectWarehouse(w http.ResponseWriter, r *http.Request) {
	var req selectWarehouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.WarehouseID == 0 {
		writeError(w, http.StatusBadRequest, "warehouse_id is required")
		return
	}

	sess := sessionFrom(r.Context())
	sess.WarehouseID = req.WarehouseID
	writeJSON(w, http.StatusOK, toSessionView(sess))
}
