package handlers

import (
	"context"
	"net/http"
	"time"

	"jobportal/internal/app"
	"jobportal/internal/common"
	"jobportal/internal/domain/application"
	"jobportal/internal/domain/user"
	"jobportal/internal/http/middleware"
	"jobportal/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter}
}

type applyRequest struct {
	Message string `json:"message"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "apply:" + jobID.String() + ":" + seekerID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Apply(r.Context(), jobID, seekerID, req.Message)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// List dispatches by role: seekers and providers each get only their own
// visible applications, admins get everything.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	role, ok := middleware.RoleFromContext(r.Context())
	if !ok {
		response.Error(w, common.NewError(common.CodeForbidden, "role not found", nil))
		return
	}
	var (
		items any
		err   error
	)
	switch role {
	case user.RoleSeeker:
		items, err = h.applications.ListForSeeker(r.Context(), actorID)
	case user.RoleProvider:
		items, err = h.applications.ListForProvider(r.Context(), actorID)
	case user.RoleAdmin:
		items, err = h.applications.ListAll(r.Context())
	default:
		err = common.NewError(common.CodeForbidden, "insufficient role", nil)
	}
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) ProviderAccept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applications.ProviderAccept)
}

func (h *ApplicationHandler) SeekerAccept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applications.SeekerAccept)
}

func (h *ApplicationHandler) ProviderReject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applications.ProviderReject)
}

func (h *ApplicationHandler) transition(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, applicationID, actorID common.UUID) (*application.Application, error)) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := action(r.Context(), applicationID, actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.Withdraw(r.Context(), applicationID, seekerID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

func (h *ApplicationHandler) HideForSeeker(w http.ResponseWriter, r *http.Request) {
	h.hide(w, r, user.RoleSeeker)
}

func (h *ApplicationHandler) HideForProvider(w http.ResponseWriter, r *http.Request) {
	h.hide(w, r, user.RoleProvider)
}

func (h *ApplicationHandler) hide(w http.ResponseWriter, r *http.Request, role user.Role) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.Hide(r.Context(), applicationID, actorID, role); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "hidden"})
}
