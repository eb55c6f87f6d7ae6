package movement_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-bridge/internal/movement"
)

var _ = Describe("EventCache", func() {
	var (
		now   time.Time
		cache *movement.EventCache
	)

	BeforeEach(func() {
		now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
		cache = movement.NewEventCache(time.Hour).WithClock(func() time.Time { return now })
	})

	It("returns fresh entries stamped with the clock", func() {
		stored := cache.Put(movement.CachedEvent{Code: "101", EventoID: "9", TipoMovimentoID: "1"})
		Expect(stored.CachedAt).To(Equal(now))
		Expect(stored.ExpiresAt).To(Equal(now.Add(time.Hour)))

		got, ok := cache.Get("101")
		Expect(ok).To(BeTrue())
		Expect(got.EventoID).To(Equal("9"))
	})

	It("hides expired entries and sweeps them", func() {
		cache.Put(movement.CachedEvent{Code: "101", EventoID: "9"})
		now = now.Add(30 * time.Minute)
		cache.Put(movement.CachedEvent{Code: "102", EventoID: "10"})

		now = now.Add(45 * time.Minute)
		_, ok := cache.Get("101")
		Expect(ok).To(BeFalse())
		Expect(cache.Entries()).To(HaveLen(1))

		Expect(cache.Sweep()).To(Equal(1))
		Expect(cache.Len()).To(Equal(1))
	})

	It("keeps entries forever with a non-positive TTL", func() {
		forever := movement.NewEventCache(0).WithClock(func() time.Time { return now })
		forever.Put(movement.CachedEvent{Code: "101"})
		now = now.Add(24 * 365 * time.Hour)

		_, ok := forever.Get("101")
		Expect(ok).To(BeTrue())
		Expect(forever.Sweep()).To(BeZero())
	})

	It("invalidates one code and clears everything", func() {
		cache.Put(movement.CachedEvent{Code: "101"})
		cache.Put(movement.CachedEvent{Code: "102"})
		cache.Put(movement.CachedEvent{Code: "103"})

		Expect(cache.Invalidate("102")).To(BeTrue())
		Expect(cache.Invalidate("102")).To(BeFalse())

		codes := []string{}
		for _, e := range cache.Entries() {
			codes = append(codes, e.Code)
		}
		Expect(codes).To(Equal([]string{"101", "103"}))

		Expect(cache.Clear()).To(Equal(2))
		Expect(cache.Len()).To(BeZero())
	})
})
