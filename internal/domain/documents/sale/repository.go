package sale

import (
	"context"
	"time"

	"optipos/internal/core/id"
)

// ListFilter narrows sale listings.
type ListFilter struct {
	CustomerID *id.ID

	// InvoiceQuery matches invoice number substring
	InvoiceQuery string

	From *time.Time
	To   *time.Time

	Limit  int
	Offset int
}

// Repository defines storage operations for Sale documents.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	Update(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)
	GetByInvoice(ctx context.Context, invoiceNo string) (*Sale, error)
	List(ctx context.Context, filter ListFilter) ([]*Sale, error)

	// Count returns the number of committed sales.
	// Used by the invoice numerator; must run inside the same transaction
	// as the sale insert it numbers.
	Count(ctx context.Context) (int64, error)

	SaveLines(ctx context.Context, saleID id.ID, lines []Line) error
	DeleteLines(ctx context.Context, saleID id.ID) error
	GetLines(ctx context.Context, saleID id.ID) ([]Line, error)

	SaveExams(ctx context.Context, saleID id.ID, exams []Examination) error
	DeleteExams(ctx context.Context, saleID id.ID) error
	GetExams(ctx context.Context, saleID id.ID) ([]Examination, error)

	// DistinctExamLensTypeNames lists lens-type names referenced by at
	// least one examination row. Feeds the lens-type cleanup.
	DistinctExamLensTypeNames(ctx context.Context) ([]string, error)
}
