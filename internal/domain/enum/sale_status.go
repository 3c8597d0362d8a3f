package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus int

const (
	SaleStatusDraft     SaleStatus = 0
	SaleStatusPaid      SaleStatus = 1
	SaleStatusCancelled SaleStatus = 2
)

func (s SaleStatus) String() string {
	if s < SaleStatusDraft || s > SaleStatusCancelled {
		return "Unknown"
	}
	return [...]string{"Draft", "Paid", "Cancelled"}[s]
}

// ParseSaleStatus converts a lowercase status string to a SaleStatus
func ParseSaleStatus(s string) (SaleStatus, bool) {
	switch s {
	case "draft":
		return SaleStatusDraft, true
	case "paid":
		return SaleStatusPaid, true
	case "cancelled":
		return SaleStatusCancelled, true
	}
	return SaleStatusDraft, false
}

// IsTerminal reports whether no further transitions are allowed
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusPaid || s == SaleStatusCancelled
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = SaleStatusDraft
	case "Paid":
		*s = SaleStatusPaid
	case "Cancelled":
		*s = SaleStatusCancelled
	}
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
