package role

import (
	"context"
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

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), auth.SubjectFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Role created", resp)
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), listing.FromRequest(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Roles retrieved", page)
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "roleId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Get(r.Context(), id, listing.FromRequest(r).IncludeDeleted)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Role retrieved", resp)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "roleId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	var dto UpdateRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), auth.SubjectFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Role updated", resp)
}

func (h *Handler) DisableRole(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "roleId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Disable(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Role disabled", resp)
}

func (h *Handler) EnableRole(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "roleId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Enable(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Role enabled", resp)
}

func (h *Handler) DeleteRolePermanently(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "roleId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.HardDelete(r.Context(), auth.SubjectFromContext(r.Context()), id); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Role permanently deleted", nil)
}

func (h *Handler) ListRolePermissions(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "roleId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	perms, err := h.Service.ListPermissions(r.Context(), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Role permissions retrieved", perms)
}

func (h *Handler) ReplaceRolePermissions(w http.ResponseWriter, r *http.Request) {
	h.changePermissions(w, r, "Role permissions replaced", h.Service.ReplacePermissions)
}

func (h *Handler) AddRolePermissions(w http.ResponseWriter, r *http.Request) {
	h.changePermissions(w, r, "Permissions granted", h.Service.AddPermissions)
}

func (h *Handler) RemoveRolePermissions(w http.ResponseWriter, r *http.Request) {
	h.changePermissions(w, r, "Permissions revoked", h.Service.RemovePermissions)
}

type permissionChange func(ctx context.Context, actor auth.Subject, id int64, dto PermissionIDsDTO) ([]PermissionResponse, error)

func (h *Handler) changePermissions(w http.ResponseWriter, r *http.Request, message string, apply permissionChange) {
	id, err := h.ParseIDParam(r, "roleId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	var dto PermissionIDsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	perms, err := apply(r.Context(), auth.SubjectFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, message, perms)
}
