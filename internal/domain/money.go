package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact fixed-point amount with two fractional digits. It is
// never represented as binary floating point; all arithmetic goes through
// shopspring/decimal.
type Money struct {
	d decimal.Decimal
}

// ZeroMoney is the zero amount.
var ZeroMoney = Money{d: decimal.Zero}

// DefaultSuspiciousCeiling is the magnitude at or above which a balance or
// entry amount is treated as suspicious (10^14).
var DefaultSuspiciousCeiling = Money{d: decimal.New(1, 14)}

// ParseMoney parses a decimal string into Money. It rejects malformed input,
// negative values and more than two fractional digits with ErrInvalidAmount.
func ParseMoney(raw string) (Money, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Money{}, fmt.Errorf("empty amount: %w", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", trimmed, ErrInvalidAmount)
	}

	return MoneyFromDecimal(d)
}

// MoneyFromDecimal validates a decimal as a Money value. Scale beyond two
// fractional digits or a negative sign fails with ErrInvalidAmount.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, fmt.Errorf("negative amount %s: %w", d.String(), ErrInvalidAmount)
	}
	if d.Exponent() < -2 {
		return Money{}, fmt.Errorf("amount %s has more than two decimal places: %w", d.String(), ErrInvalidAmount)
	}
	return Money{d: d}, nil
}

func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Sub never clamps. A negative result is an invariant violation on the
// account store and is reported as ErrNegativeBalance.
func (m Money) Sub(other Money) (Money, error) {
	result := m.d.Sub(other.d)
	if result.IsNegative() {
		return Money{}, fmt.Errorf("%s - %s: %w", m.StringFixed(), other.StringFixed(), ErrNegativeBalance)
	}
	return Money{d: result}, nil
}

func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

func (m Money) LessThan(other Money) bool {
	return m.d.LessThan(other.d)
}

func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// AtOrAbove reports whether the amount reaches the given safety ceiling.
func (m Money) AtOrAbove(ceiling Money) bool {
	return m.d.GreaterThanOrEqual(ceiling.d)
}

// StringFixed renders the amount with exactly two decimal places, the form
// used at every persistence and wire boundary.
func (m Money) StringFixed() string {
	return m.d.StringFixed(2)
}

func (m Money) String() string {
	return m.StringFixed()
}

func (m Money) Decimal() decimal.Decimal {
	return m.d
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("unmarshal amount: %w", ErrInvalidAmount)
	}

	value, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}

	*m = value
	return nil
}
