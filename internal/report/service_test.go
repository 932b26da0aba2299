package report_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	reportDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/report"
	"github.com/frahmantamala/training-management/internal/report"
	"github.com/frahmantamala/training-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

// mockRepository keeps reports in memory.
type mockRepository struct {
	reports map[int64]*reportDatamodel.Report
	courses map[int64]bool
	nextID  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{reports: map[int64]*reportDatamodel.Report{}, courses: map[int64]bool{}}
}

func (m *mockRepository) Create(_ context.Context, r *reportDatamodel.Report) error {
	m.nextID++
	r.ID = m.nextID
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *mockRepository) FindByID(_ context.Context, id int64, includeDeleted bool) (*reportDatamodel.Report, error) {
	r, ok := m.reports[id]
	if !ok || (!includeDeleted && r.DeletedAt != nil) {
		return nil, report.ErrReportNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepository) List(_ context.Context, q listing.Query, authorID int64) ([]*reportDatamodel.Report, int64, error) {
	var out []*reportDatamodel.Report
	for id := int64(1); id <= m.nextID; id++ {
		r, ok := m.reports[id]
		if !ok || (!q.IncludeDeleted && r.DeletedAt != nil) || (authorID != 0 && r.AuthorID != authorID) {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepository) SaveLifecycle(_ context.Context, r *reportDatamodel.Report) error {
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *mockRepository) CourseExists(_ context.Context, id int64) (bool, error) {
	return m.courses[id], nil
}

var _ = Describe("Report Service", func() {
	var (
		repo    *mockRepository
		svc     *report.Service
		ctx     context.Context
		trainee auth.Subject
		other   auth.Subject
		auditor auth.Subject
		admin   auth.Subject
	)

	BeforeEach(func() {
		repo = newMockRepository()
		repo.courses[3] = true
		svc = report.NewService(repo, logger.LoggerWrapper())
		ctx = context.Background()
		trainee = auth.Subject{UserID: 10, RoleID: 5, RoleName: auth.RoleTrainee}
		other = auth.Subject{UserID: 11, RoleID: 5, RoleName: auth.RoleTrainee}
		auditor = auth.Subject{UserID: 20, RoleID: 3, RoleName: auth.RoleAuditor}
		admin = auth.Subject{UserID: 1, RoleID: 1, RoleName: auth.RoleAdministrator}
	})

	submit := func(by auth.Subject, title string) *report.ReportResponse {
		resp, err := svc.Create(ctx, by, report.CreateReportDTO{Title: title, Content: "body"})
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	It("records the caller as author", func() {
		course := int64(3)
		resp, err := svc.Create(ctx, trainee, report.CreateReportDTO{Title: "Week 1", Content: "done", CourseID: &course})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.AuthorID).To(Equal(trainee.UserID))
		Expect(resp.IsActive).To(BeTrue())
	})

	It("rejects an unknown course", func() {
		course := int64(9)
		_, err := svc.Create(ctx, trainee, report.CreateReportDTO{Title: "x", Content: "y", CourseID: &course})
		Expect(err).To(MatchError(report.ErrUnknownCourse))
	})

	It("rejects a missing body", func() {
		_, err := svc.Create(ctx, trainee, report.CreateReportDTO{Title: "x"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
	})

	It("lists only own reports for non-reviewers", func() {
		submit(trainee, "mine")
		submit(other, "theirs")

		page, err := svc.List(ctx, trainee, listing.Query{Page: 1, Limit: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Items).To(HaveLen(1))
		Expect(page.Items[0].Title).To(Equal("mine"))

		page, err = svc.List(ctx, auditor, listing.Query{Page: 1, Limit: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Total).To(Equal(int64(2)))
	})

	It("hides other people's reports as not found", func() {
		r := submit(other, "theirs")

		_, err := svc.Get(ctx, trainee, r.ID, false)
		Expect(err).To(MatchError(report.ErrReportNotFound))

		got, err := svc.Get(ctx, auditor, r.ID, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Title).To(Equal("theirs"))
	})

	It("lets only the author or an administrator delete", func() {
		r := submit(trainee, "mine")

		Expect(svc.Delete(ctx, other, r.ID)).To(MatchError(report.ErrNotAuthor))
		Expect(svc.Delete(ctx, auditor, r.ID)).To(MatchError(report.ErrNotAuthor))
		Expect(svc.Delete(ctx, trainee, r.ID)).To(Succeed())

		err := svc.Delete(ctx, admin, r.ID)
		appErr, _ := internal.IsAppError(err)
		Expect(appErr.Code).To(Equal(internal.ErrCodeAlreadyDisabled))

		_, err = svc.Get(ctx, trainee, r.ID, false)
		Expect(err).To(MatchError(report.ErrReportNotFound))
		got, err := svc.Get(ctx, trainee, r.ID, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(*got.DeletedByID).To(Equal(trainee.UserID))
	})
})
