package request_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	requestDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/request"
	"github.com/frahmantamala/training-management/internal/request"
	requestPostgres "github.com/frahmantamala/training-management/internal/request/postgres"
	"github.com/frahmantamala/training-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestRequest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Request Suite")
}

var _ = Describe("Request Service", func() {
	var (
		repo    *requestPostgres.RequestRepository
		svc     *request.Service
		ctx     context.Context
		trainee auth.Subject
		head    auth.Subject
		trainer auth.Subject
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&requestDatamodel.Request{})).To(Succeed())

		repo = requestPostgres.NewRequestRepository(db)
		svc = request.NewService(repo, logger.LoggerWrapper())
		ctx = context.Background()
		trainee = auth.Subject{UserID: 10, RoleID: 5, RoleName: auth.RoleTrainee}
		head = auth.Subject{UserID: 2, RoleID: 2, RoleName: auth.RoleDepartmentHead}
		trainer = auth.Subject{UserID: 30, RoleID: 4, RoleName: auth.RoleTrainer}
	})

	submit := func(by auth.Subject) *request.RequestResponse {
		resp, err := svc.Create(ctx, by, request.CreateRequestDTO{Type: "leave", Title: "Day off"})
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	note := func(s string) *string { return &s }

	It("creates pending requests with a normalised type", func() {
		resp := submit(trainee)
		Expect(resp.Type).To(Equal("LEAVE"))
		Expect(resp.Status).To(Equal(request.StatusPending))
		Expect(resp.RequesterID).To(Equal(trainee.UserID))
	})

	It("rejects unknown types", func() {
		_, err := svc.Create(ctx, trainee, request.CreateRequestDTO{Type: "PIZZA", Title: "Lunch"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
	})

	It("approves a pending request once", func() {
		r := submit(trainee)

		resp, err := svc.Approve(ctx, head, r.ID, request.ReviewDTO{})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Status).To(Equal(request.StatusApproved))
		Expect(*resp.ReviewerID).To(Equal(head.UserID))
		Expect(resp.ReviewedAt).NotTo(BeNil())

		_, err = svc.Reject(ctx, head, r.ID, request.ReviewDTO{Note: note("changed my mind")})
		Expect(err).To(MatchError(request.ErrNotPending))
		appErr, _ := internal.IsAppError(err)
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("requires a note to reject", func() {
		r := submit(trainee)
		_, err := svc.Reject(ctx, head, r.ID, request.ReviewDTO{})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))

		resp, err := svc.Reject(ctx, head, r.ID, request.ReviewDTO{Note: note("busy week")})
		Expect(err).NotTo(HaveOccurred())
		Expect(*resp.ReviewNote).To(Equal("busy week"))
	})

	It("refuses self review and non-reviewer roles", func() {
		own := submit(head)
		_, err := svc.Approve(ctx, head, own.ID, request.ReviewDTO{})
		Expect(err).To(MatchError(request.ErrOwnRequest))

		r := submit(trainee)
		_, err = svc.Approve(ctx, trainer, r.ID, request.ReviewDTO{})
		Expect(err).To(MatchError(request.ErrNotReviewer))
	})

	It("does not let a stale read approve twice", func() {
		r := submit(trainee)
		row, err := repo.FindByID(ctx, r.ID)
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.Approve(ctx, head, r.ID, request.ReviewDTO{})
		Expect(err).NotTo(HaveOccurred())

		row.Status = request.StatusRejected
		ok, err := repo.Review(ctx, row)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("scopes visibility to owners and reviewers", func() {
		mine := submit(trainee)
		submit(trainer)

		page, err := svc.List(ctx, trainee, listing.Query{Page: 1, Limit: 10}, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Total).To(Equal(int64(1)))

		page, err = svc.List(ctx, head, listing.Query{Page: 1, Limit: 10}, request.StatusPending)
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Total).To(Equal(int64(2)))

		_, err = svc.Get(ctx, trainer, mine.ID)
		Expect(err).To(MatchError(request.ErrRequestNotFound))
		_, err = svc.Get(ctx, head, mine.ID)
		Expect(err).NotTo(HaveOccurred())
	})
})
