package course_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	courseDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/course"
	departmentDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/user"
	"github.com/frahmantamala/training-management/internal/course"
	coursePostgres "github.com/frahmantamala/training-management/internal/course/postgres"
	"github.com/frahmantamala/training-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestCourse(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Course Suite")
}

var _ = Describe("Course Service", func() {
	var (
		db        *gorm.DB
		svc       *course.Service
		ctx       context.Context
		actor     auth.Subject
		deptID    int64
		trainerID int64
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(
			&courseDatamodel.Course{},
			&courseDatamodel.Subject{},
			&departmentDatamodel.Department{},
			&userDatamodel.User{},
		)).To(Succeed())

		dept := &departmentDatamodel.Department{Name: "Engineering"}
		Expect(db.Create(dept).Error).NotTo(HaveOccurred())
		deptID = dept.ID

		trainer := &userDatamodel.User{EID: "TR000001", FirstName: "Tom", Email: "tom@example.com", PasswordHash: "x", RoleID: 4}
		Expect(db.Create(trainer).Error).NotTo(HaveOccurred())
		trainerID = trainer.ID

		svc = course.NewService(coursePostgres.NewCourseRepository(db), logger.LoggerWrapper())
		ctx = context.Background()
		actor = auth.Subject{UserID: trainerID, RoleID: 4, RoleName: auth.RoleTrainer}
	})

	Describe("Create", func() {
		It("stores references and dates", func() {
			start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 1, 0)
			resp, err := svc.Create(ctx, actor, course.CreateCourseDTO{
				Title: "Go Basics", DepartmentID: &deptID, TrainerID: &trainerID, StartDate: &start, EndDate: &end,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*resp.DepartmentID).To(Equal(deptID))
			Expect(resp.StartDate.Equal(start)).To(BeTrue())
		})

		It("rejects an end date before the start date", func() {
			start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 0, -1)
			_, err := svc.Create(ctx, actor, course.CreateCourseDTO{Title: "Backwards", StartDate: &start, EndDate: &end})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(appErr.Details.(internal.ValidationErrors).Errors[0].Path).To(Equal("endDate"))
		})

		It("rejects disabled departments and unknown trainers", func() {
			Expect(db.Model(&departmentDatamodel.Department{}).Where("id = ?", deptID).
				Updates(map[string]interface{}{"deleted_at": time.Now(), "is_active": false}).Error).To(Succeed())

			_, err := svc.Create(ctx, actor, course.CreateCourseDTO{Title: "Orphan", DepartmentID: &deptID})
			Expect(err).To(MatchError(course.ErrUnknownDept))

			ghost := int64(404)
			_, err = svc.Create(ctx, actor, course.CreateCourseDTO{Title: "Orphan", TrainerID: &ghost})
			Expect(err).To(MatchError(course.ErrUnknownTrainer))
		})

		It("rejects a duplicate live title", func() {
			_, err := svc.Create(ctx, actor, course.CreateCourseDTO{Title: "Go Basics"})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Create(ctx, actor, course.CreateCourseDTO{Title: "go basics"})
			Expect(err).To(MatchError(course.ErrCourseExists))
		})
	})

	Describe("Lifecycle", func() {
		It("disables, hides and re-enables a course", func() {
			resp, err := svc.Create(ctx, actor, course.CreateCourseDTO{Title: "SQL"})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Disable(ctx, actor, resp.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Disable(ctx, actor, resp.ID)
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeAlreadyDisabled))

			page, err := svc.List(ctx, listing.Query{Page: 1, Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(BeZero())

			_, err = svc.ListSubjects(ctx, resp.ID)
			Expect(err).To(MatchError(course.ErrCourseNotFound))

			_, err = svc.Enable(ctx, actor, resp.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("checks the merged dates on update", func() {
			start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			resp, err := svc.Create(ctx, actor, course.CreateCourseDTO{Title: "Dates", StartDate: &start})
			Expect(err).NotTo(HaveOccurred())

			early := start.AddDate(0, 0, -3)
			_, err = svc.Update(ctx, actor, resp.ID, course.UpdateCourseDTO{EndDate: &early})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Subjects", func() {
		var courseID int64

		BeforeEach(func() {
			resp, err := svc.Create(ctx, actor, course.CreateCourseDTO{Title: "Kubernetes"})
			Expect(err).NotTo(HaveOccurred())
			courseID = resp.ID
		})

		It("appends subjects in order when no position is given", func() {
			first, err := svc.CreateSubject(ctx, actor, courseID, course.CreateSubjectDTO{Title: "Pods"})
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Position).To(Equal(1))

			second, err := svc.CreateSubject(ctx, actor, courseID, course.CreateSubjectDTO{Title: "Services"})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Position).To(Equal(2))

			zero := 0
			_, err = svc.CreateSubject(ctx, actor, courseID, course.CreateSubjectDTO{Title: "Intro", Position: &zero})
			Expect(err).NotTo(HaveOccurred())

			list, err := svc.ListSubjects(ctx, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
			Expect(list[0].Title).To(Equal("Intro"))
			Expect(list[2].Title).To(Equal("Services"))
		})

		It("updates and deletes only subjects of the given course", func() {
			subj, err := svc.CreateSubject(ctx, actor, courseID, course.CreateSubjectDTO{Title: "Pods"})
			Expect(err).NotTo(HaveOccurred())

			other, err := svc.Create(ctx, actor, course.CreateCourseDTO{Title: "Other"})
			Expect(err).NotTo(HaveOccurred())

			title := "Pods and ReplicaSets"
			_, err = svc.UpdateSubject(ctx, actor, other.ID, subj.ID, course.UpdateSubjectDTO{Title: &title})
			Expect(err).To(MatchError(course.ErrSubjectNotFound))

			updated, err := svc.UpdateSubject(ctx, actor, courseID, subj.ID, course.UpdateSubjectDTO{Title: &title})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal(title))

			Expect(svc.DeleteSubject(ctx, actor, other.ID, subj.ID)).To(MatchError(course.ErrSubjectNotFound))
			Expect(svc.DeleteSubject(ctx, actor, courseID, subj.ID)).To(Succeed())
		})

		It("rejects a negative position", func() {
			neg := -1
			_, err := svc.CreateSubject(ctx, actor, courseID, course.CreateSubjectDTO{Title: "Bad", Position: &neg})
			Expect(err).To(HaveOccurred())
		})
	})
})
