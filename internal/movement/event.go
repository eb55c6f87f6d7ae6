package movement

import (
	"strings"

	"github.com/frahmantamala/payroll-bridge/internal/flash"
)

// Unit says how an event value is expressed in AlterData.
type Unit string

const (
	UnitDays  Unit = "days"
	UnitHours Unit = "hours"
)

var dayKeywords = []string{"dia", "atestado", "falt"}

// ClassifyUnit tags an event once at ingestion: a "DIAS" type or a day keyword in the
// description means days, anything else is hours.
func ClassifyUnit(eventType, description string) Unit {
	if strings.TrimSpace(eventType) == "DIAS" {
		return UnitDays
	}

	desc := strings.ToLower(description)
	for _, keyword := range dayKeywords {
		if strings.Contains(desc, keyword) {
			return UnitDays
		}
	}
	return UnitHours
}

// Event is a Flash budget event with its unit resolved.
type Event struct {
	Date        string
	Code        string
	Description string
	Value       flash.Value
	Decimal     *float64
	HM          string
	Unit        Unit
}

func NewEvent(e flash.BudgetEvent) Event {
	return Event{
		Date:        strings.TrimSpace(e.Date),
		Code:        strings.TrimSpace(e.EventCode),
		Description: strings.TrimSpace(e.Description),
		Value:       e.Value,
		Decimal:     e.Decimal,
		HM:          strings.TrimSpace(e.HM),
		Unit:        ClassifyUnit(e.Type, e.Description),
	}
}
