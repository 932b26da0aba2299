package request

import (
	"log/slog"
	"net/http"
	"strings"

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

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var dto CreateRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), auth.SubjectFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Request submitted", resp)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	status := strings.ToUpper(r.URL.Query().Get("status"))
	page, err := h.Service.List(r.Context(), auth.SubjectFromContext(r.Context()), listing.FromRequest(r), status)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Requests retrieved", page)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "requestId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Get(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Request retrieved", resp)
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, dto, ok := h.reviewInput(w, r)
	if !ok {
		return
	}
	resp, err := h.Service.Approve(r.Context(), auth.SubjectFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Request approved", resp)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, dto, ok := h.reviewInput(w, r)
	if !ok {
		return
	}
	resp, err := h.Service.Reject(r.Context(), auth.SubjectFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Request rejected", resp)
}

// reviewInput accepts an empty body for approvals.
func (h *Handler) reviewInput(w http.ResponseWriter, r *http.Request) (int64, ReviewDTO, bool) {
	var dto ReviewDTO
	id, err := h.ParseIDParam(r, "requestId")
	if err != nil {
		h.HandleError(w, r, err)
		return 0, dto, false
	}
	if r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &dto); err != nil {
			h.HandleError(w, r, err)
			return 0, dto, false
		}
	}
	return id, dto, true
}
