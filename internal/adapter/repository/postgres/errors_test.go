package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/galaxybank/ledger-core/internal/domain"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: domain.ErrDuplicateNumber},
		{name: "check violation", err: &pq.Error{Code: "23514"}, want: domain.ErrNegativeBalance},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: domain.ErrContention},
		{name: "deadlock detected", err: &pq.Error{Code: "40P01"}, want: domain.ErrContention},
		{name: "lock not available", err: &pq.Error{Code: "55P03"}, want: domain.ErrContention},
		{name: "wrapped unique violation", err: fmt.Errorf("insert account: %w", &pq.Error{Code: "23505"}), want: domain.ErrDuplicateNumber},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyError(tc.err)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestClassifyErrorPassesThroughUnknown(t *testing.T) {
	unknown := errors.New("connection reset")
	if got := classifyError(unknown); got != unknown {
		t.Fatalf("expected pass-through, got %v", got)
	}

	if got := classifyError(sql.ErrNoRows); !errors.Is(got, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows pass-through, got %v", got)
	}

	other := &pq.Error{Code: "42P01"}
	if got := classifyError(other); !errors.As(got, new(*pq.Error)) {
		t.Fatalf("expected unclassified pq error pass-through, got %v", got)
	}
}
