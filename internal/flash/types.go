package flash

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type Company struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LegalName string `json:"legalName,omitempty"`
	Document  string `json:"document,omitempty"`
}

// DisplayName is the name used to match the company in AlterData.
func (c Company) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.LegalName
}

type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ExternalID string `json:"externalId"`
	Status     string `json:"status,omitempty"`
	CompanyID  string `json:"companyId,omitempty"`
}

// BudgetEvent is a verba line as returned by Flash.
type BudgetEvent struct {
	Date        string   `json:"date"`
	EventCode   string   `json:"eventCode"`
	Description string   `json:"description"`
	Value       Value    `json:"value"`
	Decimal     *float64 `json:"decimal"`
	HM          string   `json:"hm"`
	Type        string   `json:"type"`
}

type Budget struct {
	EmployeeID   string        `json:"employeeId"`
	ExternalID   string        `json:"externalId"`
	EmployeeName string        `json:"employeeName,omitempty"`
	Events       []BudgetEvent `json:"events"`
}

type listResponse[T any] struct {
	Records []T `json:"records"`
}

// Value accepts a JSON number, a string or null.
type Value struct {
	Raw   string
	Valid bool
}

func StringValue(s string) Value {
	return Value{Raw: s, Valid: s != ""}
}

func NumberValue(f float64) Value {
	return Value{Raw: strconv.FormatFloat(f, 'f', -1, 64), Valid: true}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = Value{Raw: n.String(), Valid: true}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(v.Raw, 64); err == nil {
		return []byte(v.Raw), nil
	}
	return json.Marshal(v.Raw)
}
