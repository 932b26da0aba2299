package user_test

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/training-management/internal/core/events"
	"github.com/frahmantamala/training-management/internal/mailer"
	"github.com/frahmantamala/training-management/internal/user"
	"github.com/frahmantamala/training-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type captureSender struct {
	sent []mailer.Message
	err  error
}

func (s *captureSender) Send(_ context.Context, msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

var _ = Describe("User EventHandler", func() {
	var (
		sender  *captureSender
		handler *user.EventHandler
	)

	BeforeEach(func() {
		sender = &captureSender{}
		handler = user.NewEventHandler(sender, logger.LoggerWrapper())
	})

	It("mails the generated password", func() {
		event := events.NewUserCreatedEvent(7, "TE000007", "new@example.com", "Nia", "abcd1234abcd1234")
		Expect(handler.HandleUserCreated(context.Background(), event)).To(Succeed())

		Expect(sender.sent).To(HaveLen(1))
		Expect(sender.sent[0].To).To(ConsistOf("new@example.com"))
		Expect(sender.sent[0].HTML).To(ContainSubstring("TE000007"))
		Expect(sender.sent[0].HTML).To(ContainSubstring("abcd1234abcd1234"))
	})

	It("leaves the password out when none was generated", func() {
		event := events.NewUserCreatedEvent(8, "TR000001", "t@example.com", "Tom", "")
		Expect(handler.HandleUserCreated(context.Background(), event)).To(Succeed())
		Expect(sender.sent[0].HTML).NotTo(ContainSubstring("temporary password"))
	})

	It("returns delivery failures", func() {
		sender.err = errors.New("smtp down")
		event := events.NewUserCreatedEvent(9, "TE000009", "x@example.com", "X", "")
		Expect(handler.HandleUserCreated(context.Background(), event)).To(MatchError("smtp down"))
	})

	It("rejects foreign payloads", func() {
		other := events.NewPasswordResetRequestedEvent(1, "x@example.com", "X", "tok", time.Now())
		Expect(handler.HandleUserCreated(context.Background(), other)).NotTo(Succeed())
	})
})
