package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/internal/service"
	"github.com/abmah/green-jordan-backend/pkg/errors"
	"github.com/abmah/green-jordan-backend/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type MembershipHandler struct {
	membershipService service.MembershipService
	log               *logger.Logger
}

func NewMembershipHandler(membershipService service.MembershipService, log *logger.Logger) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		log:               log,
	}
}

// JoinRequestPayload is the body for POST /api/v1/teams/{teamID}/requests
type JoinRequestPayload struct {
	UserID string `json:"user_id"`
}

// ResolveRequestPayload is the body for PUT /api/v1/teams/{teamID}/requests/{userID}
type ResolveRequestPayload struct {
	AdminID string `json:"admin_id"`
	Outcome string `json:"outcome"`
}

// ActorPayload carries the acting user for self-service and admin mutations
type ActorPayload struct {
	UserID  string `json:"user_id,omitempty"`
	AdminID string `json:"admin_id,omitempty"`
}

// RequestJoin handles POST /api/v1/teams/{teamID}/requests
func (h *MembershipHandler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	var req JoinRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDomainError(w, r, h.log, errors.NewValidationError("Invalid request body", nil))
		return
	}
	if req.UserID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("user_id is required", nil))
		return
	}

	joinRequest, err := h.membershipService.RequestJoin(r.Context(), teamID, req.UserID)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, joinRequest)
}

// ListRequests handles GET /api/v1/teams/{teamID}/requests
func (h *MembershipHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	adminID := r.URL.Query().Get("adminId")
	if adminID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("adminId query parameter is required", nil))
		return
	}

	requests, err := h.membershipService.ListRequests(r.Context(), teamID, adminID)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// Resolve handles PUT /api/v1/teams/{teamID}/requests/{userID}
func (h *MembershipHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	userID := chi.URLParam(r, "userID")

	var req ResolveRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDomainError(w, r, h.log, errors.NewValidationError("Invalid request body", nil))
		return
	}
	if req.AdminID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("admin_id is required", nil))
		return
	}

	outcome := domain.ResolveOutcome(req.Outcome)
	if !outcome.Valid() {
		respondDomainError(w, r, h.log, errors.NewValidationError("outcome must be \"accept\" or \"deny\"", nil))
		return
	}

	if err := h.membershipService.ResolveRequest(r.Context(), teamID, userID, req.AdminID, outcome); err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	message := "Join request accepted"
	if outcome == domain.OutcomeDeny {
		message = "Join request denied"
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}

// RemoveMember handles PUT /api/v1/teams/{teamID}/members/{memberID}/remove
func (h *MembershipHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	memberID := chi.URLParam(r, "memberID")

	var req ActorPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDomainError(w, r, h.log, errors.NewValidationError("Invalid request body", nil))
		return
	}
	if req.AdminID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("admin_id is required", nil))
		return
	}

	if err := h.membershipService.RemoveMember(r.Context(), teamID, memberID, req.AdminID); err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}

// Leave handles PUT /api/v1/teams/{teamID}/leave
func (h *MembershipHandler) Leave(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	var req ActorPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDomainError(w, r, h.log, errors.NewValidationError("Invalid request body", nil))
		return
	}
	if req.UserID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("user_id is required", nil))
		return
	}

	if err := h.membershipService.LeaveTeam(r.Context(), teamID, req.UserID); err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Left team"})
}
