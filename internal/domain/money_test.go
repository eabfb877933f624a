package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func mustMoney(t *testing.T, raw string) Money {
	t.Helper()
	m, err := ParseMoney(raw)
	if err != nil {
		t.Fatalf("ParseMoney(%q) failed: %v", raw, err)
	}
	return m
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{name: "integer", raw: "100", want: "100.00", valid: true},
		{name: "one decimal place", raw: "0.5", want: "0.50", valid: true},
		{name: "two decimal places", raw: "1234.56", want: "1234.56", valid: true},
		{name: "zero", raw: "0", want: "0.00", valid: true},
		{name: "whitespace trimmed", raw: " 10.00 ", want: "10.00", valid: true},
		{name: "three decimal places", raw: "1.234", valid: false},
		{name: "negative", raw: "-5.00", valid: false},
		{name: "empty", raw: "", valid: false},
		{name: "not a number", raw: "ten", valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ParseMoney(tc.raw)
			if !tc.valid {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := m.StringFixed(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestMoneyFromDecimalRejectsScale(t *testing.T) {
	_, err := MoneyFromDecimal(decimal.RequireFromString("1.005"))
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestMoneyAddIsExact(t *testing.T) {
	// 0.1 + 0.2 is the classic binary-float trap.
	sum := mustMoney(t, "0.10").Add(mustMoney(t, "0.20"))
	if got := sum.StringFixed(); got != "0.30" {
		t.Fatalf("expected 0.30, got %s", got)
	}
}

func TestMoneySubNeverGoesNegative(t *testing.T) {
	result, err := mustMoney(t, "100.00").Sub(mustMoney(t, "40.50"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.StringFixed(); got != "59.50" {
		t.Fatalf("expected 59.50, got %s", got)
	}

	if _, err := mustMoney(t, "10.00").Sub(mustMoney(t, "10.01")); !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("expected ErrNegativeBalance, got %v", err)
	}
}

func TestMoneySubToZero(t *testing.T) {
	result, err := mustMoney(t, "25.00").Sub(mustMoney(t, "25.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsZero() {
		t.Fatalf("expected zero, got %s", result.StringFixed())
	}
}

func TestMoneyAtOrAbove(t *testing.T) {
	ceiling := mustMoney(t, "100000000000000")

	if mustMoney(t, "99999999999999.99").AtOrAbove(ceiling) {
		t.Fatal("amount below ceiling flagged")
	}
	if !mustMoney(t, "100000000000000").AtOrAbove(ceiling) {
		t.Fatal("amount at ceiling not flagged")
	}
	if !mustMoney(t, "100000000000000.01").AtOrAbove(ceiling) {
		t.Fatal("amount above ceiling not flagged")
	}
}

func TestDefaultSuspiciousCeiling(t *testing.T) {
	if got := DefaultSuspiciousCeiling.StringFixed(); got != "100000000000000.00" {
		t.Fatalf("unexpected default ceiling %s", got)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	var decoded payload
	if err := json.Unmarshal([]byte(`{"amount":"42.50"}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got := decoded.Amount.StringFixed(); got != "42.50" {
		t.Fatalf("expected 42.50, got %s", got)
	}

	encoded, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(encoded) != `{"amount":42.50}` {
		t.Fatalf("unexpected encoding %s", encoded)
	}
}

func TestMoneyUnmarshalRejectsInvalid(t *testing.T) {
	tests := []string{`"-1.00"`, `"1.005"`, `"abc"`}
	for _, raw := range tests {
		var m Money
		if err := m.UnmarshalJSON([]byte(raw)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("unmarshal %s: expected ErrInvalidAmount, got %v", raw, err)
		}
	}
}
