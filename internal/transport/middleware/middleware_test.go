package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func asSubject(r *http.Request, userID int64, roleName string) *http.Request {
	claims := &auth.Claims{UserID: userID, RoleID: 1, RoleName: roleName}
	return r.WithContext(auth.WithAccess(r.Context(), claims, &auth.RoleWithPermissions{}))
}

func decodeError(rec *httptest.ResponseRecorder) internal.Response {
	var body internal.Response
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

var _ = Describe("RequireRoles", func() {
	handler := middleware.RequireRoles(auth.RoleAdministrator)(ok)

	It("lets a listed role through", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, asSubject(httptest.NewRequest(http.MethodDelete, "/roles/3/permanent", nil), 1, auth.RoleAdministrator))
		Expect(rec.Code).To(Equal(http.StatusNoContent))
	})

	It("rejects other roles with 403", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, asSubject(httptest.NewRequest(http.MethodDelete, "/roles/3/permanent", nil), 2, auth.RoleDepartmentHead))
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(decodeError(rec).ErrorCode).To(Equal(internal.ErrCodeInsufficientRole))
	})

	It("answers 401 when no caller is attached", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/roles/3/permanent", nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("Recovery", func() {
	It("turns a panic into a 500 envelope", func() {
		h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roles", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		body := decodeError(rec)
		Expect(body.ErrorCode).To(Equal(internal.ErrCodeInternal))
		Expect(body.Message).NotTo(ContainSubstring("boom"))
	})

	It("re-raises http.ErrAbortHandler", func() {
		h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		Expect(func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		}).To(PanicWith(http.ErrAbortHandler))
	})
})

var _ = Describe("RequestID", func() {
	It("echoes an incoming trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.TraceHeader, "trace-123")
		rec := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(rec, req)
		Expect(rec.Header().Get(middleware.TraceHeader)).To(Equal("trace-123"))
	})

	It("replaces a trace id that is not a plain token", func() {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.TraceHeader, "bad id\nInjected: yes")
		rec := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(rec, req)
		Expect(rec.Header().Get(middleware.TraceHeader)).To(HaveLen(36))
	})

	It("generates one when absent", func() {
		rec := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		Expect(rec.Header().Get(middleware.TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("leaves the request body readable for the handler", func() {
		var seen string
		h := middleware.LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			seen = string(b)
			w.WriteHeader(http.StatusCreated)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.co","password":"secret"}`)))

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(seen).To(Equal(`{"email":"a@b.co","password":"secret"}`))
	})
})

const validatorDoc = `
openapi: 3.0.3
info:
  title: test
  version: "1"
servers:
  - url: /api/v1
paths:
  /roles:
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
                description:
                  type: string
      responses:
        "201":
          description: created
  /roles/{roleId}:
    get:
      parameters:
        - name: roleId
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: ok
`

var _ = Describe("RequestValidator", func() {
	var handler http.Handler

	BeforeEach(func() {
		v, err := middleware.NewRequestValidatorFromData(context.Background(), []byte(validatorDoc))
		Expect(err).NotTo(HaveOccurred())
		handler = v.Middleware(ok)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/roles", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	It("passes a conforming body", func() {
		Expect(post(`{"name":"MENTOR"}`).Code).To(Equal(http.StatusNoContent))
	})

	It("reports schema violations as 422 with paths", func() {
		rec := post(`{"name":12}`)
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		body := decodeError(rec)
		Expect(body.ErrorCode).To(Equal(internal.ErrCodeValidationFailed))
		Expect(body.Errors).NotTo(BeEmpty())
		Expect(body.Errors[0].Path).To(Equal("name"))
	})

	It("reports a missing required property", func() {
		rec := post(`{"description":"x"}`)
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(decodeError(rec).Errors).NotTo(BeEmpty())
	})

	It("checks path parameters", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/roles/abc", nil))
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(decodeError(rec).Errors[0].Path).To(Equal("roleId"))
	})

	It("passes operations the document does not describe", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/media/images/upload", strings.NewReader("x")))
		Expect(rec.Code).To(Equal(http.StatusNoContent))
	})

	It("rejects an invalid document", func() {
		_, err := middleware.NewRequestValidatorFromData(context.Background(), []byte("openapi: 3.0.3\npaths: 12\n"))
		Expect(err).To(HaveOccurred())
	})
})
