package report

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

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var dto CreateReportDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), auth.SubjectFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Report submitted", resp)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), auth.SubjectFromContext(r.Context()), listing.FromRequest(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Reports retrieved", page)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "reportId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Get(r.Context(), auth.SubjectFromContext(r.Context()), id, listing.FromRequest(r).IncludeDeleted)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Report retrieved", resp)
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "reportId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), auth.SubjectFromContext(r.Context()), id); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Report deleted", nil)
}
