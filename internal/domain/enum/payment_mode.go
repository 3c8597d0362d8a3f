package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMode represents how a payment was collected
type PaymentMode int

const (
	PaymentModeCash        PaymentMode = 0
	PaymentModeCard        PaymentMode = 1
	PaymentModeCheck       PaymentMode = 2
	PaymentModeStoreCredit PaymentMode = 3
)

// String tolerates out-of-range values, which can reach Go through a
// corrupted database column.
func (m PaymentMode) String() string {
	if !m.IsValid() {
		return "Unknown"
	}
	return [...]string{"Cash", "Card", "Check", "StoreCredit"}[m]
}

// IsValid reports whether the value is one of the known modes
func (m PaymentMode) IsValid() bool {
	return m >= PaymentModeCash && m <= PaymentModeStoreCredit
}

// ParsePaymentMode converts a string into a PaymentMode
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch s {
	case "Cash", "cash":
		return PaymentModeCash, nil
	case "Card", "card":
		return PaymentModeCard, nil
	case "Check", "check":
		return PaymentModeCheck, nil
	case "StoreCredit", "store_credit":
		return PaymentModeStoreCredit, nil
	}
	return 0, fmt.Errorf("unknown payment mode %q", s)
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMode(i)
		return nil
	}
	parsed, err := ParsePaymentMode(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentModeCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMode(v)
	case int:
		*m = PaymentMode(v)
	}
	return nil
}
