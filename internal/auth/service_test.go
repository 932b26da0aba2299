package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/core/events"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

type mockUserRepository struct {
	byEmail       map[string]*Credentials
	byID          map[int64]*Credentials
	updated       map[int64]string
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	users := []*Credentials{
		{UserID: 1, EID: "TE000001", Email: "trainee@example.com", FirstName: "Tia", PasswordHash: string(hashedPassword), Status: "ACTIVE", RoleID: 5, RoleName: RoleTrainee, RoleActive: true},
		{UserID: 2, EID: "AD000001", Email: "admin@example.com", FirstName: "Ada", PasswordHash: string(hashedPassword), Status: "ACTIVE", RoleID: 1, RoleName: RoleAdministrator, RoleActive: true},
		{UserID: 3, EID: "TR000001", Email: "disabled@example.com", FirstName: "Dan", PasswordHash: string(hashedPassword), Status: "DISABLED", RoleID: 4, RoleName: RoleTrainer, RoleActive: true},
		{UserID: 4, EID: "QA000001", Email: "orphan@example.com", FirstName: "Oli", PasswordHash: string(hashedPassword), Status: "ACTIVE", RoleID: 3, RoleName: RoleAuditor, RoleActive: false},
	}

	m := &mockUserRepository{
		byEmail: make(map[string]*Credentials),
		byID:    make(map[int64]*Credentials),
		updated: make(map[int64]string),
	}
	for _, u := range users {
		m.byEmail[u.Email] = u
		m.byID[u.UserID] = u
	}
	return m
}

func (m *mockUserRepository) GetCredentialsByEmail(_ context.Context, email string) (*Credentials, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if c, ok := m.byEmail[email]; ok {
		return c, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) GetCredentialsByID(_ context.Context, userID int64) (*Credentials, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if c, ok := m.byID[userID]; ok {
		return c, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) UpdatePasswordHash(_ context.Context, userID int64, hash string) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.updated[userID] = hash
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func newTokenGenerator() *JWTTokenGenerator {
	return NewJWTTokenGenerator(TokenConfig{
		AccessSecret:  "access-secret-access-secret-0000",
		RefreshSecret: "refresh-secret-refresh-secret-00",
		ResetSecret:   "reset-secret-reset-secret-reset0",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		ResetTTL:      30 * time.Minute,
	})
}

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	var tokens *JWTTokenGenerator
	sub := Subject{UserID: 7, RoleID: 3, RoleName: RoleTrainer}

	ginkgo.BeforeEach(func() {
		tokens = newTokenGenerator()
	})

	ginkgo.It("round-trips the access payload", func() {
		token, err := tokens.GenerateAccessToken(sub)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		claims, err := tokens.ValidateAccessToken(token)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(claims.UserID).To(gomega.Equal(int64(7)))
		gomega.Expect(claims.RoleID).To(gomega.Equal(int64(3)))
		gomega.Expect(claims.RoleName).To(gomega.Equal(RoleTrainer))
		gomega.Expect(claims.IssuedAt).NotTo(gomega.BeNil())
		gomega.Expect(claims.ExpiresAt.Time).To(gomega.BeTemporally(">", time.Now()))
	})

	ginkgo.It("rejects an expired token as expired", func() {
		tokens.AccessTokenTTL = -time.Minute
		token, err := tokens.GenerateAccessToken(sub)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = tokens.ValidateAccessToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
	})

	ginkgo.It("rejects a token signed with another secret", func() {
		other := newTokenGenerator()
		other.AccessTokenSecret = []byte("some-other-secret-some-other-sec")
		token, err := other.GenerateAccessToken(sub)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = tokens.ValidateAccessToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
	})

	ginkgo.It("does not accept a refresh token as an access token", func() {
		token, err := tokens.GenerateRefreshToken(sub)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = tokens.ValidateAccessToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))

		claims, err := tokens.ValidateRefreshToken(token)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(claims.UserID).To(gomega.Equal(int64(7)))
	})

	ginkgo.It("rejects garbage", func() {
		_, err := tokens.ValidateAccessToken("not.a.jwt")
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		_, err = tokens.ValidateAccessToken("")
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
	})

	ginkgo.It("issues reset tokens bound to a user", func() {
		token, expiresAt, err := tokens.GenerateResetToken(9)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(expiresAt).To(gomega.BeTemporally("~", time.Now().Add(30*time.Minute), time.Minute))

		userID, err := tokens.ValidateResetToken(token)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(userID).To(gomega.Equal(int64(9)))
	})
})

var _ = ginkgo.Describe("Auth Service", func() {
	var (
		mockRepo  *mockUserRepository
		publisher *recordingPublisher
		tokens    *JWTTokenGenerator
		service   *Service
		ctx       context.Context
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		publisher = &recordingPublisher{}
		tokens = newTokenGenerator()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, tokens, publisher, bcrypt.MinCost, logger)
		ctx = context.Background()
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("issues tokens carrying the user's role", func() {
			result, err := service.Authenticate(ctx, LoginDTO{Email: "trainee@example.com", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(result.RefreshToken).NotTo(gomega.BeEmpty())

			claims, err := service.ValidateAccessToken(result.AccessToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal(int64(1)))
			gomega.Expect(claims.RoleID).To(gomega.Equal(int64(5)))
			gomega.Expect(claims.RoleName).To(gomega.Equal(RoleTrainee))
		})

		ginkgo.It("matches email case-insensitively", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Email: "Trainee@Example.com", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("rejects a wrong password", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Email: "trainee@example.com", Password: "wrong_password"})
			gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
		})

		ginkgo.It("rejects an unknown user with the same error", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Email: "ghost@example.com", Password: "correct_password"})
			gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
		})

		ginkgo.It("rejects disabled users and users of inactive roles", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Email: "disabled@example.com", Password: "correct_password"})
			gomega.Expect(errors.Is(err, internal.ErrUserInactive)).To(gomega.BeTrue())

			_, err = service.Authenticate(ctx, LoginDTO{Email: "orphan@example.com", Password: "correct_password"})
			gomega.Expect(errors.Is(err, internal.ErrUserInactive)).To(gomega.BeTrue())
		})

		ginkgo.It("validates input before touching the repository", func() {
			mockRepo.returnError = true
			mockRepo.errorToReturn = errors.New("should not be called")

			_, err := service.Authenticate(ctx, LoginDTO{Email: "", Password: ""})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(422))
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("issues a new pair from a refresh token", func() {
			pair, err := service.Authenticate(ctx, LoginDTO{Email: "admin@example.com", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(ctx, RefreshTokenDTO{RefreshToken: pair.RefreshToken})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("rejects an access token used as refresh token", func() {
			pair, err := service.Authenticate(ctx, LoginDTO{Email: "admin@example.com", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, RefreshTokenDTO{RefreshToken: pair.AccessToken})
			gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
		})

		ginkgo.It("refuses users disabled after the token was issued", func() {
			pair, err := service.Authenticate(ctx, LoginDTO{Email: "admin@example.com", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			mockRepo.byID[2].Status = "DISABLED"

			_, err = service.RefreshTokens(ctx, RefreshTokenDTO{RefreshToken: pair.RefreshToken})
			gomega.Expect(errors.Is(err, internal.ErrUserInactive)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("password reset", func() {
		ginkgo.It("publishes a reset event for a known user", func() {
			err := service.ForgotPassword(ctx, ForgotPasswordDTO{Email: "trainee@example.com"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(publisher.events).To(gomega.HaveLen(1))

			event, ok := publisher.events[0].(*events.PasswordResetRequestedEvent)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(event.UserID).To(gomega.Equal(int64(1)))
			gomega.Expect(event.Token).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("stays silent for unknown emails", func() {
			err := service.ForgotPassword(ctx, ForgotPasswordDTO{Email: "ghost@example.com"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(publisher.events).To(gomega.BeEmpty())
		})

		ginkgo.It("stores a new hash for a valid reset token", func() {
			token, _, err := tokens.GenerateResetToken(1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			err = service.ResetPassword(ctx, ResetPasswordDTO{Token: token, Password: "brand-new-pass"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(mockRepo.updated[1]), []byte("brand-new-pass"))).To(gomega.Succeed())
		})

		ginkgo.It("rejects an access token as reset token", func() {
			access, err := tokens.GenerateAccessToken(Subject{UserID: 1, RoleID: 5, RoleName: RoleTrainee})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			err = service.ResetPassword(ctx, ResetPasswordDTO{Token: access, Password: "brand-new-pass"})
			gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
			gomega.Expect(mockRepo.updated).To(gomega.BeEmpty())
		})
	})
})
