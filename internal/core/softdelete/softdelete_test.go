package softdelete_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSoftDelete(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SoftDelete Suite")
}

type widget struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
	softdelete.Model
}

var _ = Describe("Model", func() {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	It("moves ACTIVE to DISABLED and records who did it", func() {
		m := softdelete.Model{IsActive: true}
		Expect(m.Disable(7, at)).To(Succeed())
		Expect(m.Disabled()).To(BeTrue())
		Expect(*m.DeletedAt).To(Equal(at))
		Expect(*m.DeletedByID).To(BeEquivalentTo(7))
		Expect(*m.UpdatedByID).To(BeEquivalentTo(7))
	})

	It("refuses to disable twice", func() {
		m := softdelete.Model{IsActive: true}
		Expect(m.Disable(7, at)).To(Succeed())
		Expect(m.Disable(8, at)).To(MatchError(softdelete.ErrAlreadyDisabled))
		Expect(*m.DeletedByID).To(BeEquivalentTo(7))
	})

	It("moves DISABLED back to ACTIVE and clears the deletion marks", func() {
		m := softdelete.Model{IsActive: true}
		Expect(m.Disable(7, at)).To(Succeed())
		Expect(m.Enable(9)).To(Succeed())
		Expect(m.Disabled()).To(BeFalse())
		Expect(m.DeletedAt).To(BeNil())
		Expect(m.DeletedByID).To(BeNil())
		Expect(*m.UpdatedByID).To(BeEquivalentTo(9))
	})

	It("refuses to enable an active row", func() {
		m := softdelete.Model{IsActive: true}
		Expect(m.Enable(9)).To(MatchError(softdelete.ErrAlreadyEnabled))
	})

	It("treats an inactive row without a deletion time as disabled", func() {
		m := softdelete.Model{IsActive: false}
		Expect(m.Disabled()).To(BeTrue())
	})
})

var _ = Describe("AsAppError", func() {
	It("maps transition errors to 400s naming the entity", func() {
		err := softdelete.AsAppError("Role", softdelete.ErrAlreadyDisabled)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(appErr.Code).To(Equal(internal.ErrCodeAlreadyDisabled))
		Expect(appErr.Message).To(Equal("Role is already disabled"))

		appErr, _ = internal.IsAppError(softdelete.AsAppError("Course", softdelete.ErrAlreadyEnabled))
		Expect(appErr.Code).To(Equal(internal.ErrCodeAlreadyEnabled))
	})

	It("passes other errors through", func() {
		Expect(softdelete.AsAppError("Role", gorm.ErrInvalidData)).To(MatchError(gorm.ErrInvalidData))
	})
})

var _ = Describe("Filter", func() {
	var db *gorm.DB

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&widget{})).To(Succeed())

		live := widget{Name: "live", Model: softdelete.Model{IsActive: true}}
		gone := widget{Name: "gone", Model: softdelete.Model{IsActive: true}}
		Expect(gone.Disable(1, time.Now())).To(Succeed())
		Expect(db.Create(&live).Error).To(Succeed())
		Expect(db.Create(&gone).Error).To(Succeed())
	})

	names := func(scope func(*gorm.DB) *gorm.DB) []string {
		var out []string
		Expect(db.Model(&widget{}).Scopes(scope).Order("name").Pluck("name", &out).Error).To(Succeed())
		return out
	}

	It("hides disabled rows by default", func() {
		Expect(names(softdelete.Filter("deleted_at", false, nil))).To(Equal([]string{"live"}))
	})

	It("includes them on request", func() {
		Expect(names(softdelete.Filter("deleted_at", true, nil))).To(Equal([]string{"gone", "live"}))
	})

	It("combines with a base predicate", func() {
		Expect(names(softdelete.Filter("deleted_at", true, "name = ?", "gone"))).To(Equal([]string{"gone"}))
		Expect(names(softdelete.Filter("deleted_at", false, "name = ?", "gone"))).To(BeEmpty())
	})
})
