package seed_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/datamodel/eidsequence"
	permissionDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/user"
	"github.com/frahmantamala/training-management/internal/eid"
	"github.com/frahmantamala/training-management/internal/seed"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Seeder", func() {
	var (
		db     *gorm.DB
		seeder *seed.Seeder
		ctx    context.Context
		specs  []seed.PermissionSpec
		admin  internal.SeedConfig
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(
			&roleDatamodel.Role{},
			&roleDatamodel.RolePermission{},
			&permissionDatamodel.Permission{},
			&userDatamodel.User{},
			&eidsequence.Sequence{},
		)).To(Succeed())

		seeder = seed.NewSeeder(db, eid.NewGenerator(db), bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
		specs = []seed.PermissionSpec{
			{Method: "GET", Path: "/roles", Module: "roles", Name: "List roles"},
			{Method: "GET", Path: "/users/profile", Module: "users", Name: "Get profile", Grants: []string{auth.RoleTrainee, auth.RoleTrainer}},
		}
		admin = internal.SeedConfig{
			AdminEmail:     "Admin@Example.com",
			AdminPassword:  "change-me-now",
			AdminFirstName: "System",
			AdminLastName:  "Administrator",
		}
	})

	grantedTo := func(roleName string) []string {
		var paths []string
		Expect(db.Table("role_permissions").
			Joins("JOIN roles ON roles.id = role_permissions.role_id").
			Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
			Where("roles.name = ?", roleName).
			Order("permissions.path").
			Pluck("permissions.path", &paths).Error).To(Succeed())
		return paths
	}

	It("creates roles, permissions, grants and the administrator", func() {
		res, err := seeder.Run(ctx, specs, admin)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.RolesCreated).To(Equal(len(auth.SystemRoles)))
		Expect(res.PermissionsCreated).To(Equal(2))
		Expect(res.GrantsCreated).To(Equal(4))
		Expect(res.AdminCreated).To(BeTrue())
		Expect(res.AdminEID).To(Equal("AD000001"))

		Expect(grantedTo(auth.RoleAdministrator)).To(Equal([]string{"/roles", "/users/profile"}))
		Expect(grantedTo(auth.RoleTrainee)).To(Equal([]string{"/users/profile"}))
		Expect(grantedTo(auth.RoleAuditor)).To(BeEmpty())

		var u userDatamodel.User
		Expect(db.Where("eid = ?", "AD000001").First(&u).Error).To(Succeed())
		Expect(u.Email).To(Equal("admin@example.com"))
		Expect(u.Status).To(Equal("ACTIVE"))
		Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("change-me-now"))).To(Succeed())
	})

	It("only fills in what is missing on a second run", func() {
		_, err := seeder.Run(ctx, specs, admin)
		Expect(err).NotTo(HaveOccurred())

		specs = append(specs, seed.PermissionSpec{Method: "POST", Path: "/reports", Module: "reports", Name: "Create report", Grants: []string{auth.RoleTrainer}})
		res, err := seeder.Run(ctx, specs, admin)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.RolesCreated).To(BeZero())
		Expect(res.PermissionsCreated).To(Equal(1))
		Expect(res.GrantsCreated).To(Equal(2))
		Expect(res.AdminCreated).To(BeFalse())
		Expect(res.AdminEID).To(Equal("AD000001"))

		var users int64
		Expect(db.Model(&userDatamodel.User{}).Count(&users).Error).To(Succeed())
		Expect(users).To(BeEquivalentTo(1))
	})

	It("fails without writing anything when a grant names an unknown role", func() {
		specs[0].Grants = []string{"JANITOR"}
		_, err := seeder.Run(ctx, specs, admin)
		Expect(err).To(MatchError(ContainSubstring("unknown role JANITOR")))

		var roles int64
		Expect(db.Model(&roleDatamodel.Role{}).Count(&roles).Error).To(Succeed())
		Expect(roles).To(BeZero())
	})
})
