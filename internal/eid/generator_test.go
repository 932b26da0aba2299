package eid_test

import (
	"context"
	"sync"

	"github.com/frahmantamala/training-management/internal/core/datamodel/eidsequence"
	userDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/user"
	"github.com/frahmantamala/training-management/internal/eid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Prefixes", func() {
	DescribeTable("maps role names",
		func(name, want string) {
			got, err := eid.PrefixFor(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("administrator", "ADMINISTRATOR", "AD"),
		Entry("department head with dash", "department-head", "DH"),
		Entry("department head with space", "Department Head", "DH"),
		Entry("auditor", "auditor", "QA"),
		Entry("trainer", "TRAINER", "TR"),
		Entry("trainee", "Trainee", "TE"),
	)

	It("rejects roles without a prefix", func() {
		_, err := eid.PrefixFor("JANITOR")
		Expect(err).To(MatchError(eid.ErrUnsupportedRole))
	})

	It("parses only well-formed ids", func() {
		n, ok := eid.Parse("TR", "TR000042")
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(int64(42)))

		_, ok = eid.Parse("TR", "TRABCDEF")
		Expect(ok).To(BeFalse())
		_, ok = eid.Parse("TR", "TR42")
		Expect(ok).To(BeFalse())
		_, ok = eid.Parse("TR", "TE000001")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Generator", func() {
	var (
		db        *gorm.DB
		generator *eid.Generator
		ctx       context.Context
	)

	seedUser := func(code string, deleted bool) {
		u := &userDatamodel.User{
			EID:          code,
			FirstName:    "Seed",
			Email:        code + "@example.com",
			PasswordHash: "x",
			RoleID:       1,
		}
		Expect(db.Create(u).Error).NotTo(HaveOccurred())
		if deleted {
			Expect(db.Model(u).Updates(map[string]interface{}{"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"), "is_active": false}).Error).NotTo(HaveOccurred())
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&userDatamodel.User{}, &eidsequence.Sequence{})).To(Succeed())

		generator = eid.NewGenerator(db)
		ctx = context.Background()
	})

	It("starts at 1 when no ids exist", func() {
		id, err := generator.Generate(ctx, "TRAINER")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("TR000001"))
	})

	It("keeps advancing when the previous id was never used", func() {
		first, err := generator.Generate(ctx, "TRAINER")
		Expect(err).NotTo(HaveOccurred())
		second, err := generator.Generate(ctx, "TRAINER")
		Expect(err).NotTo(HaveOccurred())

		Expect(first).To(Equal("TR000001"))
		Expect(second).To(Equal("TR000002"))
	})

	It("continues after the greatest existing id", func() {
		seedUser("TR000003", false)
		seedUser("TR000010", false)

		ids, err := generator.GenerateBatch(ctx, "TRAINER", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(Equal([]string{"TR000011", "TR000012", "TR000013"}))
	})

	It("counts soft-deleted users", func() {
		seedUser("TE000007", true)

		id, err := generator.Generate(ctx, "trainee")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("TE000008"))
	})

	It("keeps prefixes independent", func() {
		seedUser("TR000005", false)

		id, err := generator.Generate(ctx, "AUDITOR")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("QA000001"))
	})

	It("treats malformed ids as absent", func() {
		seedUser("TRXYZ", false)

		id, err := generator.Generate(ctx, "TRAINER")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("TR000001"))
	})

	It("skips a malformed id sorting above a valid one", func() {
		seedUser("TRXYZ", false)
		seedUser("TR000004", false)

		id, err := generator.Generate(ctx, "TRAINER")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("TR000005"))
	})

	It("rejects unsupported roles and bad counts", func() {
		_, err := generator.Generate(ctx, "GUEST")
		Expect(err).To(MatchError(eid.ErrUnsupportedRole))

		_, err = generator.GenerateBatch(ctx, "TRAINER", 0)
		Expect(err).To(MatchError(eid.ErrInvalidCount))
	})

	It("rolls the reservation back with the caller's transaction", func() {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := generator.GenerateWithTx(tx, "TRAINER", 2)
			Expect(err).NotTo(HaveOccurred())
			return gorm.ErrInvalidTransaction
		})
		Expect(err).To(HaveOccurred())

		id, err := generator.Generate(ctx, "TRAINER")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("TR000001"))
	})

	It("never hands out the same id to concurrent callers", func() {
		const workers = 20
		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = make(map[string]int)
		)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				id, err := generator.Generate(ctx, "TRAINER")
				Expect(err).NotTo(HaveOccurred())
				mu.Lock()
				ids[id]++
				mu.Unlock()
			}()
		}
		wg.Wait()

		Expect(ids).To(HaveLen(workers))
		for id, n := range ids {
			Expect(n).To(Equal(1), "duplicate id %s", id)
		}
	})
})
