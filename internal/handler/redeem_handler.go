package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abmah/green-jordan-backend/internal/service"
	"github.com/abmah/green-jordan-backend/pkg/errors"
	"github.com/abmah/green-jordan-backend/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type RedeemHandler struct {
	redeemService service.RedeemService
	log           *logger.Logger
}

func NewRedeemHandler(redeemService service.RedeemService, log *logger.Logger) *RedeemHandler {
	return &RedeemHandler{
		redeemService: redeemService,
		log:           log,
	}
}

// RedeemPayload is the body for POST /api/v1/redeem
type RedeemPayload struct {
	UserID       string `json:"user_id"`
	RedeemableID string `json:"redeemable_id"`
}

// ListAvailable handles GET /api/v1/redeemables, returning only entries the
// user can afford right now.
func (h *RedeemHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("userId query parameter is required", nil))
		return
	}

	items, err := h.redeemService.ListAvailable(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// ListAll handles GET /api/v1/redeemables/all
func (h *RedeemHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	forceRefresh := r.URL.Query().Get("refresh") == "true"

	items, err := h.redeemService.ListAll(r.Context(), forceRefresh)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// Redeem handles POST /api/v1/redeem
func (h *RedeemHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDomainError(w, r, h.log, errors.NewValidationError("Invalid request body", nil))
		return
	}
	if req.UserID == "" || req.RedeemableID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("user_id and redeemable_id are required", nil))
		return
	}

	response, err := h.redeemService.Redeem(r.Context(), req.UserID, req.RedeemableID)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, response)
}

// Basket handles GET /api/v1/basket
func (h *RedeemHandler) Basket(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("userId query parameter is required", nil))
		return
	}

	entries, err := h.redeemService.GetBasket(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// Balance handles GET /api/v1/users/{userID}/balance
func (h *RedeemHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	balance, err := h.redeemService.GetBalance(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"balance": balance})
}
