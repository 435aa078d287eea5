// Package server is the companion server: save storage over REST plus a
// best-effort WebSocket relay for notifications.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/persist"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/state"
)

// SaveRepo is the slot-keyed storage the API sits on. Both the file and
// sqlite stores satisfy it.
type SaveRepo interface {
	Put(ctx context.Context, slot string, s *state.GameState) (persist.SaveReceipt, error)
	Get(ctx context.Context, slot string) (*state.GameState, error)
	Delete(ctx context.Context, slot string) error
}

type Handler struct {
	repo   SaveRepo
	hub    *Hub
	logger *log.Logger
}

func NewHandler(repo SaveRepo, hub *Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{repo: repo, hub: hub, logger: logger}
}

// Routes registers the API on a router.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/save/{slot}", h.GetSave).Methods(http.MethodGet)
	r.HandleFunc("/api/save/{slot}", h.PutSave).Methods(http.MethodPut)
	r.HandleFunc("/api/save/{slot}", h.DeleteSave).Methods(http.MethodDelete)
	if h.hub != nil {
		r.HandleFunc("/ws", h.hub.ServeWS)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "cultivation",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) GetSave(w http.ResponseWriter, r *http.Request) {
	slot := mux.Vars(r)["slot"]

	s, err := h.repo.Get(r.Context(), slot)
	if errors.Is(err, persist.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "no save for slot")
		return
	}
	if err != nil {
		h.logger.Printf("get save %q: %v", slot, err)
		writeErr(w, http.StatusInternalServerError, "load failed")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) PutSave(w http.ResponseWriter, r *http.Request) {
	slot := mux.Vars(r)["slot"]

	var s state.GameState
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed save payload")
		return
	}
	s.Normalize()

	receipt, err := h.repo.Put(r.Context(), slot, &s)
	if err != nil {
		var vErr *persist.ValidationError
		if errors.As(err, &vErr) {
			writeErr(w, http.StatusUnprocessableEntity, vErr.Error())
			return
		}
		h.logger.Printf("put save %q: %v", slot, err)
		writeErr(w, http.StatusInternalServerError, "save failed")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(Notice{Type: "save_updated", Slot: slot})
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *Handler) DeleteSave(w http.ResponseWriter, r *http.Request) {
	slot := mux.Vars(r)["slot"]

	err := h.repo.Delete(r.Context(), slot)
	if errors.Is(err, persist.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "no save for slot")
		return
	}
	if err != nil {
		h.logger.Printf("delete save %q: %v", slot, err)
		writeErr(w, http.StatusInternalServerError, "delete failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "slot": slot})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
