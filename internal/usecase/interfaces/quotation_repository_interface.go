package interfaces

import (
	"cargo_quotes/internal/domain/entities"
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrVersionConflict is returned by Save when the stored version differs from
	// the expected one.
	ErrVersionConflict = errors.New("version conflict")
	// ErrConditionNotMet is returned by ExpireIfOverdue when the record is no
	// longer sent or no longer overdue at write time.
	ErrConditionNotMet = errors.New("condition not met")
	ErrDuplicateKey    = errors.New("duplicate key")
	// ErrInvalidCursor is returned by List when the page cursor cannot be decoded.
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrStore         = errors.New("store error")
)

// DuplicateKeyError reports a uniqueness violation on Field.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s %q", e.Field, e.Value)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

type QuotationFilter struct {
	Status   entities.QuotationStatus
	ClientID string
	Limit    int
	Cursor   string
}

type QuotationPage struct {
	Items      []entities.Quotation
	NextCursor string
}

// IQuotationRepository abstracts DynamoDB persistence for Quotation.
//
// GetByID returns a zero Quotation (ID == "") when nothing is stored under id.
// Save writes the full record only when the stored version equals
// expectedVersion and stores it with expectedVersion+1.
// ExpireIfOverdue atomically moves a Sent record whose valid_until is before
// entry.Timestamp to EXPIRED and appends entry to its history.
type IQuotationRepository interface {
	Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error)
	GetByID(ctx context.Context, id string) (entities.Quotation, error)
	List(ctx context.Context, f QuotationFilter) (QuotationPage, error)
	Save(ctx context.Context, q entities.Quotation, expectedVersion int) (entities.Quotation, error)
	FindExpirable(ctx context.Context, now time.Time) ([]entities.Quotation, error)
	ExpireIfOverdue(ctx context.Context, id string, entry entities.StatusHistoryEntry) (entities.Quotation, error)
}
