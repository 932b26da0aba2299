package media

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/transport"
)

// multipartOverhead leaves room for boundaries and part headers.
const multipartOverhead = 1 << 20

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

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, KindImage)
}

func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, KindDocument)
}

func (h *Handler) PresignImage(w http.ResponseWriter, r *http.Request) {
	h.presign(w, r, KindImage)
}

func (h *Handler) PresignDocument(w http.ResponseWriter, r *http.Request) {
	h.presign(w, r, KindDocument)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, kind Kind) {
	max := h.Service.MaxSize(kind)
	r.Body = http.MaxBytesReader(w, r.Body, max+multipartOverhead)
	if err := r.ParseMultipartForm(max + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleError(w, r, ErrFileTooLarge)
			return
		}
		h.HandleError(w, r, internal.NewBadRequestError("Request must be multipart/form-data", internal.ErrCodeInvalidRequest))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.HandleError(w, r, internal.NewValidationFieldError("file", "file is required", internal.ErrCodeValidationFailed))
		return
	}
	defer file.Close()

	resp, err := h.Service.Upload(r.Context(), auth.SubjectFromContext(r.Context()), kind,
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "File uploaded", resp)
}

func (h *Handler) presign(w http.ResponseWriter, r *http.Request, kind Kind) {
	var dto PresignDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Presign(r.Context(), auth.SubjectFromContext(r.Context()), kind, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Presigned url created", resp)
}
