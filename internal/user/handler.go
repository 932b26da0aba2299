package user

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	"github.com/frahmantamala/training-management/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), auth.SubjectFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "User created", resp)
}

// BulkCreateUsers handles POST /users/bulk. Nothing is created when any entry fails.
func (h *Handler) BulkCreateUsers(w http.ResponseWriter, r *http.Request) {
	var dto BulkCreateUsersDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.BulkCreate(r.Context(), auth.SubjectFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Users created", resp)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), listing.FromRequest(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Users retrieved", page)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "userId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Get(r.Context(), id, listing.FromRequest(r).IncludeDeleted)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User retrieved", resp)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "userId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), auth.SubjectFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User updated", resp)
}

func (h *Handler) DisableUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "userId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Disable(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User disabled", resp)
}

func (h *Handler) EnableUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "userId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Enable(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User enabled", resp)
}

// GetProfile handles GET /profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.GetProfile(r.Context(), auth.SubjectFromContext(r.Context()))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Profile retrieved", resp)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var dto UpdateProfileDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.UpdateProfile(r.Context(), auth.SubjectFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Profile updated", resp)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var dto ChangePasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), auth.SubjectFromContext(r.Context()), dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Password changed", nil)
}
