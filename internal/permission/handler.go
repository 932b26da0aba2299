package permission

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

func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var dto CreatePermissionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), auth.SubjectFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Permission created", resp)
}

func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), listing.FromRequest(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Permissions retrieved", page)
}

func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "permissionId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Get(r.Context(), id, listing.FromRequest(r).IncludeDeleted)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Permission retrieved", resp)
}

func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "permissionId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	var dto UpdatePermissionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), auth.SubjectFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Permission updated", resp)
}

func (h *Handler) DisablePermission(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "permissionId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Disable(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Permission disabled", resp)
}

func (h *Handler) EnablePermission(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "permissionId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Enable(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Permission enabled", resp)
}

func (h *Handler) DeletePermissionPermanently(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "permissionId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.HardDelete(r.Context(), auth.SubjectFromContext(r.Context()), id); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Permission permanently deleted", nil)
}
