package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type grant struct {
	roleID int64
	method string
	path   string
}

// fakeResolver mimics the SQL resolver's semantics over an in-memory grant list.
type fakeResolver struct {
	roles  map[int64]string
	grants []grant
	err    error
	calls  []string
}

func (f *fakeResolver) ResolveRole(_ context.Context, roleID int64, path, method string) (*RoleWithPermissions, error) {
	f.calls = append(f.calls, method+" "+path)
	if f.err != nil {
		return nil, f.err
	}
	name, ok := f.roles[roleID]
	if !ok {
		return nil, ErrRoleNotFound
	}
	role := &RoleWithPermissions{ID: roleID, Name: name}
	for i, g := range f.grants {
		if g.roleID == roleID && g.path == path && g.method == method {
			role.Permissions = append(role.Permissions, GrantedPermission{ID: int64(i + 1), Method: method, Path: path})
		}
	}
	return role, nil
}

var _ = ginkgo.Describe("AccessGate", func() {
	var (
		tokens   *JWTTokenGenerator
		resolver *fakeResolver
		router   *chi.Mux
		seen     *Claims
	)

	bearer := func(sub Subject) string {
		token, err := tokens.GenerateAccessToken(sub)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		return "Bearer " + token
	}

	do := func(method, target, authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	errorCode := func(w *httptest.ResponseRecorder) string {
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(gomega.Succeed())
		return body["errorCode"].(string)
	}

	ginkgo.BeforeEach(func() {
		tokens = newTokenGenerator()
		resolver = &fakeResolver{
			roles: map[int64]string{1: RoleAdministrator, 5: RoleTrainee},
			grants: []grant{
				{roleID: 1, method: http.MethodGet, path: "/roles/:roleId"},
				{roleID: 1, method: http.MethodGet, path: "/roles"},
				{roleID: 5, method: http.MethodGet, path: "/profile"},
			},
		}
		seen = nil

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		gate := NewAccessGate(tokens, resolver, "/api/v1", logger)

		ok := func(w http.ResponseWriter, r *http.Request) {
			seen, _ = ClaimsFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}

		router = chi.NewRouter()
		router.Route("/api/v1", func(r chi.Router) {
			r.Group(func(pr chi.Router) {
				pr.Use(gate.Middleware)
				pr.Get("/roles", ok)
				pr.Get("/roles/{roleId}", ok)
				pr.Delete("/roles/{roleId}", ok)
				pr.Get("/profile", ok)
			})
		})
	})

	ginkgo.It("allows a granted route template and exposes the claims", func() {
		w := do(http.MethodGet, "/api/v1/roles/42", bearer(Subject{UserID: 10, RoleID: 1, RoleName: RoleAdministrator}))
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(seen).NotTo(gomega.BeNil())
		gomega.Expect(seen.UserID).To(gomega.Equal(int64(10)))
		gomega.Expect(resolver.calls).To(gomega.ContainElement("GET /roles/:roleId"))
	})

	ginkgo.It("matches on the template, not the concrete path", func() {
		resolver.grants = []grant{{roleID: 1, method: http.MethodGet, path: "/roles/42"}}
		w := do(http.MethodGet, "/api/v1/roles/42", bearer(Subject{UserID: 10, RoleID: 1, RoleName: RoleAdministrator}))
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("denies a method that was not granted", func() {
		w := do(http.MethodDelete, "/api/v1/roles/42", bearer(Subject{UserID: 10, RoleID: 1, RoleName: RoleAdministrator}))
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(errorCode(w)).To(gomega.Equal("FORBIDDEN"))
	})

	ginkgo.It("denies routes the role holds no permission for", func() {
		w := do(http.MethodGet, "/api/v1/roles", bearer(Subject{UserID: 11, RoleID: 5, RoleName: RoleTrainee}))
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))

		w = do(http.MethodGet, "/api/v1/profile", bearer(Subject{UserID: 11, RoleID: 5, RoleName: RoleTrainee}))
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("answers 403 when the role is missing or disabled", func() {
		w := do(http.MethodGet, "/api/v1/roles", bearer(Subject{UserID: 12, RoleID: 99, RoleName: "GHOST"}))
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("answers 403 when the lookup itself fails", func() {
		resolver.err = errors.New("connection reset")
		w := do(http.MethodGet, "/api/v1/roles", bearer(Subject{UserID: 10, RoleID: 1, RoleName: RoleAdministrator}))
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.DescribeTable("answers 401 for bad credentials",
		func(header func() string, code string) {
			w := do(http.MethodGet, "/api/v1/roles", header())
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(errorCode(w)).To(gomega.Equal(code))
			gomega.Expect(resolver.calls).To(gomega.BeEmpty())
		},
		ginkgo.Entry("missing header", func() string { return "" }, "UNAUTHENTICATED"),
		ginkgo.Entry("not a bearer", func() string { return "Basic dXNlcjpwYXNz" }, "UNAUTHENTICATED"),
		ginkgo.Entry("malformed token", func() string { return "Bearer abc.def.ghi" }, "INVALID_TOKEN"),
		ginkgo.Entry("wrong signature", func() string {
			other := newTokenGenerator()
			other.AccessTokenSecret = []byte("another-secret-another-secret-00")
			token, _ := other.GenerateAccessToken(Subject{UserID: 1, RoleID: 1})
			return "Bearer " + token
		}, "INVALID_TOKEN"),
		ginkgo.Entry("expired token", func() string {
			expired := newTokenGenerator()
			expired.AccessTokenTTL = -time.Minute
			token, _ := expired.GenerateAccessToken(Subject{UserID: 1, RoleID: 1})
			return "Bearer " + token
		}, "TOKEN_EXPIRED"),
	)
})

var _ = ginkgo.Describe("NormalizeRoutePattern", func() {
	ginkgo.DescribeTable("converts chi patterns",
		func(pattern, base, want string) {
			gomega.Expect(NormalizeRoutePattern(pattern, base)).To(gomega.Equal(want))
		},
		ginkgo.Entry("plain", "/roles", "", "/roles"),
		ginkgo.Entry("param", "/roles/{roleId}", "", "/roles/:roleId"),
		ginkgo.Entry("regexp param", "/roles/{roleId:[0-9]+}/enable", "", "/roles/:roleId/enable"),
		ginkgo.Entry("base path", "/api/v1/users/{userId}", "/api/v1", "/users/:userId"),
		ginkgo.Entry("mount wildcard", "/api/v1/*/courses/{courseId}/subjects/{subjectId}", "/api/v1", "/courses/:courseId/subjects/:subjectId"),
		ginkgo.Entry("trailing slash", "/api/v1/roles/", "/api/v1", "/roles"),
		ginkgo.Entry("root", "/api/v1/", "/api/v1", "/"),
	)
})
