package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DiscountKind represents how a sale discount is expressed
type DiscountKind int

const (
	DiscountKindPercentage  DiscountKind = 0
	DiscountKindFixedAmount DiscountKind = 1
)

func (k DiscountKind) String() string {
	if k < DiscountKindPercentage || k > DiscountKindFixedAmount {
		return "Unknown"
	}
	return [...]string{"Percentage", "FixedAmount"}[k]
}

// ParseDiscountKind converts a string into a DiscountKind
func ParseDiscountKind(s string) (DiscountKind, error) {
	switch s {
	case "Percentage", "percentage":
		return DiscountKindPercentage, nil
	case "FixedAmount", "fixed_amount":
		return DiscountKindFixedAmount, nil
	}
	return 0, fmt.Errorf("unknown discount kind %q", s)
}

func (k DiscountKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *DiscountKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = DiscountKind(i)
		return nil
	}
	parsed, err := ParseDiscountKind(str)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k DiscountKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *DiscountKind) Scan(value interface{}) error {
	if value == nil {
		*k = DiscountKindPercentage
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = DiscountKind(v)
	case int:
		*k = DiscountKind(v)
	}
	return nil
}
