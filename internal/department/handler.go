package department

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

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto CreateDepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), auth.SubjectFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Department created", resp)
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), listing.FromRequest(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Departments retrieved", page)
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "departmentId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Get(r.Context(), id, listing.FromRequest(r).IncludeDeleted)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Department retrieved", resp)
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "departmentId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	var dto UpdateDepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), auth.SubjectFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Department updated", resp)
}

func (h *Handler) DisableDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "departmentId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Disable(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Department disabled", resp)
}

func (h *Handler) EnableDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "departmentId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Enable(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Department enabled", resp)
}
