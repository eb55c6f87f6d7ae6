package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeMovementSucceeded = "movement.succeeded"
	EventTypeMovementFailed    = "movement.failed"
)

// MovementProcessedEvent carries the outcome of one (event, employee) item of a batch.
type MovementProcessedEvent struct {
	BaseEvent
	BatchID            string `json:"batch_id"`
	FlashCompanyID     string `json:"flash_company_id"`
	AlterDataCompanyID string `json:"alterdata_company_id"`
	EmployeeID         string `json:"employee_id"`
	RegistrationCode   string `json:"registration_code"`
	EventCode          string `json:"event_code"`
	Value              string `json:"value"`
	Stage              string `json:"stage,omitempty"`
	FailureReason      string `json:"failure_reason,omitempty"`
	MovementID         string `json:"movement_id,omitempty"`
}

type MovementOutcome struct {
	BatchID            string
	FlashCompanyID     string
	AlterDataCompanyID string
	EmployeeID         string
	RegistrationCode   string
	EventCode          string
	Value              string
	Stage              string
	FailureReason      string
	MovementID         string
}

func NewMovementProcessedEvent(o MovementOutcome) *MovementProcessedEvent {
	eventType := EventTypeMovementSucceeded
	if o.FailureReason != "" {
		eventType = EventTypeMovementFailed
	}

	return &MovementProcessedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"batch_id":             o.BatchID,
				"flash_company_id":     o.FlashCompanyID,
				"alterdata_company_id": o.AlterDataCompanyID,
				"employee_id":          o.EmployeeID,
				"registration_code":    o.RegistrationCode,
				"event_code":           o.EventCode,
				"value":                o.Value,
				"stage":                o.Stage,
				"failure_reason":       o.FailureReason,
				"movement_id":          o.MovementID,
			},
		},
		BatchID:            o.BatchID,
		FlashCompanyID:     o.FlashCompanyID,
		AlterDataCompanyID: o.AlterDataCompanyID,
		EmployeeID:         o.EmployeeID,
		RegistrationCode:   o.RegistrationCode,
		EventCode:          o.EventCode,
		Value:              o.Value,
		Stage:              o.Stage,
		FailureReason:      o.FailureReason,
		MovementID:         o.MovementID,
	}
}
