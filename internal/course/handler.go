package course

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

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var dto CreateCourseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), auth.SubjectFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Course created", resp)
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), listing.FromRequest(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Courses retrieved", page)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "courseId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Get(r.Context(), id, listing.FromRequest(r).IncludeDeleted)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Course retrieved", resp)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "courseId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	var dto UpdateCourseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), auth.SubjectFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Course updated", resp)
}

func (h *Handler) DisableCourse(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "courseId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Disable(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Course disabled", resp)
}

func (h *Handler) EnableCourse(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "courseId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Enable(r.Context(), auth.SubjectFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Course enabled", resp)
}

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	courseID, err := h.ParseIDParam(r, "courseId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	subjects, err := h.Service.ListSubjects(r.Context(), courseID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Subjects retrieved", subjects)
}

func (h *Handler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	courseID, err := h.ParseIDParam(r, "courseId")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	var dto CreateSubjectDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.CreateSubject(r.Context(), auth.SubjectFromContext(r.Context()), courseID, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Subject created", resp)
}

func (h *Handler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	courseID, subjectID, ok := h.subjectIDs(w, r)
	if !ok {
		return
	}
	var dto UpdateSubjectDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.UpdateSubject(r.Context(), auth.SubjectFromContext(r.Context()), courseID, subjectID, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Subject updated", resp)
}

func (h *Handler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	courseID, subjectID, ok := h.subjectIDs(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteSubject(r.Context(), auth.SubjectFromContext(r.Context()), courseID, subjectID); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Subject deleted", nil)
}

func (h *Handler) subjectIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	courseID, err := h.ParseIDParam(r, "courseId")
	if err != nil {
		h.HandleError(w, r, err)
		return 0, 0, false
	}
	subjectID, err := h.ParseIDParam(r, "subjectId")
	if err != nil {
		h.HandleError(w, r, err)
		return 0, 0, false
	}
	return courseID, subjectID, true
}
