package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/internal/service"
	"github.com/abmah/green-jordan-backend/pkg/errors"
	"github.com/abmah/green-jordan-backend/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type TeamHandler struct {
	teamService service.TeamService
	log         *logger.Logger
}

func NewTeamHandler(teamService service.TeamService, log *logger.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		log:         log,
	}
}

// CreateTeamRequest is the payload for POST /api/v1/teams
type CreateTeamRequest struct {
	FounderID   string `json:"founder_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateTeamRequest is the payload for PUT /api/v1/teams/{teamID}
type UpdateTeamRequest struct {
	AdminID     string  `json:"admin_id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// List handles GET /api/v1/teams. The refresh query parameter restarts the
// retry budget and bypasses the cached view (pull-to-refresh).
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	forceRefresh := r.URL.Query().Get("refresh") == "true"

	teams, err := h.teamService.ListTeams(r.Context(), forceRefresh)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, teams)
}

// Get handles GET /api/v1/teams/{teamID}. When a userId query parameter is
// present the response is annotated with the caller's relationship to the
// team, which the client uses to pick between join and leave actions.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	team, err := h.teamService.GetTeam(r.Context(), teamID)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	if userID := r.URL.Query().Get("userId"); userID != "" {
		respondJSON(w, http.StatusOK, domain.TeamWithMembership{
			Team:           *team,
			CallerIsMember: team.HasMember(userID),
			CallerIsAdmin:  team.IsAdmin(userID),
		})
		return
	}

	respondJSON(w, http.StatusOK, team)
}

// Members handles GET /api/v1/teams/{teamID}/members
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	members, err := h.teamService.GetMembers(r.Context(), teamID)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, members)
}

// Filtered handles GET /api/v1/teams/filtered: every team except the
// caller's own.
func (h *TeamHandler) Filtered(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("userId query parameter is required", nil))
		return
	}

	teams, err := h.teamService.FilteredTeams(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, teams)
}

// Create handles POST /api/v1/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDomainError(w, r, h.log, errors.NewValidationError("Invalid request body", nil))
		return
	}
	if strings.TrimSpace(req.FounderID) == "" || strings.TrimSpace(req.Name) == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("founder_id and name are required", nil))
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), req.FounderID, req.Name, req.Description)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, team)
}

// Update handles PUT /api/v1/teams/{teamID}
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	var req UpdateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDomainError(w, r, h.log, errors.NewValidationError("Invalid request body", nil))
		return
	}
	if req.AdminID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("admin_id is required", nil))
		return
	}

	patch := domain.TeamPatch{Name: req.Name, Description: req.Description}
	team, err := h.teamService.UpdateTeam(r.Context(), teamID, req.AdminID, patch)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, team)
}

// Delete handles DELETE /api/v1/teams/{teamID}
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	adminID := r.URL.Query().Get("adminId")
	if adminID == "" {
		respondDomainError(w, r, h.log, errors.NewValidationError("adminId query parameter is required", nil))
		return
	}

	if err := h.teamService.DeleteTeam(r.Context(), teamID, adminID); err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Team deleted"})
}

// GetUser handles GET /api/v1/users/{userID}
func (h *TeamHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.teamService.GetUser(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
