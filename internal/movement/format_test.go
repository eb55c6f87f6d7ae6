package movement_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/flash"
	"github.com/frahmantamala/payroll-bridge/internal/movement"
)

func ptr(f float64) *float64 { return &f }

var _ = Describe("ClassifyUnit", func() {
	DescribeTable("tags the event once",
		func(eventType, description string, expected movement.Unit) {
			Expect(movement.ClassifyUnit(eventType, description)).To(Equal(expected))
		},
		Entry("explicit DIAS", "DIAS", "Hora extra 50%", movement.UnitDays),
		Entry("day keyword wins over an HORAS type", "HORAS", "Falta injustificada", movement.UnitDays),
		Entry("padded DIAS type", " DIAS ", "", movement.UnitDays),
		Entry("type comparison is exact", "dias", "Adicional noturno", movement.UnitHours),
		Entry("HORAS without keywords", "HORAS", "Hora extra 50%", movement.UnitHours),
		Entry("dia keyword", "", "Dias de ferias", movement.UnitDays),
		Entry("atestado keyword", "", "ATESTADO MEDICO", movement.UnitDays),
		Entry("falt keyword", "", "Faltas", movement.UnitDays),
		Entry("anything else is hours", "", "Adicional noturno", movement.UnitHours),
	)
})

var _ = Describe("DecimalToHM", func() {
	It("converts quarter hours", func() {
		hm, ok := movement.DecimalToHM(7.75)
		Expect(ok).To(BeTrue())
		Expect(hm).To(Equal("7:45"))
	})

	It("converts half hours", func() {
		hm, ok := movement.DecimalToHM(7.5)
		Expect(ok).To(BeTrue())
		Expect(hm).To(Equal("7:30"))
	})

	It("carries 60 rounded minutes into the hour", func() {
		hm, ok := movement.DecimalToHM(1.999)
		Expect(ok).To(BeTrue())
		Expect(hm).To(Equal("2:00"))
	})

	It("has no value for zero or negative hours", func() {
		_, ok := movement.DecimalToHM(0)
		Expect(ok).To(BeFalse())
		_, ok = movement.DecimalToHM(-2)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("FormatValue", func() {
	format := func(e flash.BudgetEvent) (string, error) {
		return movement.FormatValue(movement.NewEvent(e))
	}

	Context("day events", func() {
		It("rounds the decimal when value is null", func() {
			v, err := format(flash.BudgetEvent{EventCode: "10", Type: "DIAS", Decimal: ptr(2)})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("2"))
		})

		It("prefers a positive value", func() {
			v, err := format(flash.BudgetEvent{EventCode: "10", Type: "DIAS", Value: flash.NumberValue(3), Decimal: ptr(5)})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("3"))
		})

		It("renders integral string values without decimals", func() {
			v, err := format(flash.BudgetEvent{EventCode: "10", Description: "Faltas", Value: flash.StringValue("2.0")})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("2"))
		})

		It("falls back to one day", func() {
			v, err := format(flash.BudgetEvent{EventCode: "10", Description: "Atestado"})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("1"))
		})

		It("treats an HORAS absence event as days", func() {
			e := movement.NewEvent(flash.BudgetEvent{EventCode: "10", Type: "HORAS", Description: "Faltas em horas", HM: "8:00"})
			Expect(e.Unit).To(Equal(movement.UnitDays))

			v, err := movement.FormatValue(e)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("1"))
		})

		It("falls back to one day when the decimal rounds to zero", func() {
			v, err := format(flash.BudgetEvent{EventCode: "10", Type: "DIAS", Decimal: ptr(0.2)})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("1"))
		})
	})

	Context("hour events", func() {
		It("returns an H:MM value unchanged", func() {
			v, err := format(flash.BudgetEvent{EventCode: "20", Type: "HORAS", HM: "12:15"})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("12:15"))

			again, err := format(flash.BudgetEvent{EventCode: "20", Type: "HORAS", HM: v})
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(v))
		})

		It("ignores a zero hm and uses the decimal", func() {
			v, err := format(flash.BudgetEvent{EventCode: "20", Type: "HORAS", HM: "0:00", Decimal: ptr(7.5)})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("7:30"))
		})

		It("uses a value containing a colon", func() {
			v, err := format(flash.BudgetEvent{EventCode: "20", Description: "Hora extra", Value: flash.StringValue("3:20")})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("3:20"))
		})

		It("fails when nothing is usable", func() {
			_, err := format(flash.BudgetEvent{EventCode: "20", Type: "HORAS", Decimal: ptr(0)})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeNoUsableValue))
			Expect(err.Error()).To(ContainSubstring("no usable hour value for event 20"))
		})
	})
})
