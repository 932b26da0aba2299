package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/training-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("renders the error envelope", func() {
		err := internal.NewConflictError("email", "Email already exists", internal.ErrCodeEmailExists)
		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusUnprocessableEntity))

		raw, jsonErr := json.Marshal(body)
		Expect(jsonErr).NotTo(HaveOccurred())
		Expect(raw).To(MatchJSON(`{
			"statusCode": 422,
			"error": "Unprocessable Entity",
			"errorCode": "EMAIL_ALREADY_EXISTS",
			"message": "Email already exists",
			"errors": [{"path": "email", "message": "Email already exists"}]
		}`))
	})

	It("omits errors when there are none", func() {
		raw, err := json.Marshal(internal.ErrForbidden)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring(`"errors"`))
	})

	It("matches sentinels through copies and wrapping", func() {
		cause := errors.New("gorm: record not found")
		wrapped := fmt.Errorf("lookup: %w", internal.ErrInvalidToken.WithCause(cause))
		Expect(errors.Is(wrapped, internal.ErrInvalidToken)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrTokenExpired)).To(BeFalse())
		Expect(errors.Is(wrapped, cause)).To(BeTrue())
		Expect(internal.ErrInvalidToken.Cause).To(BeNil())
	})

	It("finds AppErrors in a chain", func() {
		appErr, ok := internal.IsAppError(fmt.Errorf("x: %w", internal.ErrUnauthenticated))
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusUnauthorized))

		_, ok = internal.IsAppError(errors.New("plain"))
		Expect(ok).To(BeFalse())
	})

	It("uses the first field message as its text", func() {
		err := internal.NewValidationFieldError("users[1].email", "Email is duplicated", internal.ErrCodeEmailExists)
		Expect(err.Error()).To(Equal("Email is duplicated"))
	})
})
