package postgres

import (
	"database/sql"
	"errors"

	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// classifyError maps driver-level failures onto the domain error taxonomy so
// the layers above never see pq internals. Unclassified errors pass through
// unchanged for the caller to wrap.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case codeUniqueViolation:
		return domain.ErrDuplicateNumber
	case codeCheckViolation:
		return domain.ErrNegativeBalance
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return domain.ErrContention
	}

	return err
}
