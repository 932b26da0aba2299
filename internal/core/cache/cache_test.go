package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frahmantamala/training-management/internal/core/cache"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCache(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cache Suite")
}

var _ = Describe("LRURoleIDs", func() {
	var (
		c     *cache.LRURoleIDs
		calls int
		ctx   = context.Background()
	)

	loader := func(id int64) cache.Loader {
		return func(context.Context) (int64, error) {
			calls++
			return id, nil
		}
	}

	BeforeEach(func() {
		var err error
		c, err = cache.NewRoleIDs(4)
		Expect(err).NotTo(HaveOccurred())
		calls = 0
	})

	It("loads once and then serves from memory, ignoring case", func() {
		id, err := c.GetOrLoad(ctx, "TRAINEE", loader(5))
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(BeEquivalentTo(5))

		id, err = c.GetOrLoad(ctx, "trainee", loader(99))
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(BeEquivalentTo(5))
		Expect(calls).To(Equal(1))
	})

	It("reloads after Invalidate", func() {
		_, _ = c.GetOrLoad(ctx, "TRAINEE", loader(5))
		c.Invalidate("Trainee")
		id, _ := c.GetOrLoad(ctx, "TRAINEE", loader(6))
		Expect(id).To(BeEquivalentTo(6))
		Expect(calls).To(Equal(2))
	})

	It("reloads everything after Reset", func() {
		_, _ = c.GetOrLoad(ctx, "TRAINEE", loader(5))
		_, _ = c.GetOrLoad(ctx, "TRAINER", loader(4))
		c.Reset()
		_, _ = c.GetOrLoad(ctx, "TRAINER", loader(4))
		Expect(calls).To(Equal(3))
	})

	It("does not remember failures", func() {
		boom := errors.New("db down")
		_, err := c.GetOrLoad(ctx, "TRAINEE", func(context.Context) (int64, error) { return 0, boom })
		Expect(err).To(MatchError(boom))

		id, err := c.GetOrLoad(ctx, "TRAINEE", loader(5))
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(BeEquivalentTo(5))
	})

	It("falls back to a default size", func() {
		_, err := cache.NewRoleIDs(0)
		Expect(err).NotTo(HaveOccurred())
	})
})
