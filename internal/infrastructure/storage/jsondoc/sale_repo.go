package jsondoc

import (
	"context"
	"sort"
	"strings"

	"optipos/internal/core/apperror"
	"optipos/internal/core/id"
	"optipos/internal/domain/documents/sale"
)

// SaleRepository implements sale.Repository over the document store.
// Headers, lines and examinations live in separate tables so partial
// hydration works the same way as with the relational backend.
type SaleRepository struct {
	store *Store
}

// NewSaleRepository creates a new sale repository.
func NewSaleRepository(store *Store) *SaleRepository {
	return &SaleRepository{store: store}
}

var _ sale.Repository = (*SaleRepository)(nil)

// header strips owned rows so they are never stored twice.
func header(s *sale.Sale) *sale.Sale {
	h := *s
	h.Lines = nil
	h.Exams = nil
	return &h
}

func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	return r.store.update(ctx, func(db *database) error {
		for _, existing := range db.Sales {
			if existing.InvoiceNo == s.InvoiceNo {
				return apperror.NewDuplicate("sale", "invoice_no", s.InvoiceNo)
			}
		}
		db.Sales[s.ID] = header(s)
		return nil
	})
}

func (r *SaleRepository) Update(ctx context.Context, s *sale.Sale) error {
	return r.store.update(ctx, func(db *database) error {
		if _, ok := db.Sales[s.ID]; !ok {
			return apperror.NewNotFound("sale", s.ID)
		}
		db.Sales[s.ID] = header(s)
		return nil
	})
}

func (r *SaleRepository) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	var out *sale.Sale
	err := r.store.view(ctx, func(db *database) error {
		stored, ok := db.Sales[saleID]
		if !ok {
			return apperror.NewNotFound("sale", saleID)
		}
		out = header(stored)
		return nil
	})
	return out, err
}

func (r *SaleRepository) GetByInvoice(ctx context.Context, invoiceNo string) (*sale.Sale, error) {
	var out *sale.Sale
	err := r.store.view(ctx, func(db *database) error {
		for _, stored := range db.Sales {
			if stored.InvoiceNo == invoiceNo {
				out = header(stored)
				return nil
			}
		}
		return apperror.NewNotFound("sale", invoiceNo)
	})
	return out, err
}

func (r *SaleRepository) List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	var out []*sale.Sale
	err := r.store.view(ctx, func(db *database) error {
		for _, stored := range db.Sales {
			if filter.CustomerID != nil &&
				(stored.CustomerID == nil || *stored.CustomerID != *filter.CustomerID) {
				continue
			}
			if filter.InvoiceQuery != "" && !strings.Contains(stored.InvoiceNo, filter.InvoiceQuery) {
				continue
			}
			if filter.From != nil && stored.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && stored.CreatedAt.After(*filter.To) {
				continue
			}
			out = append(out, header(stored))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *SaleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.store.view(ctx, func(db *database) error {
		count = int64(len(db.Sales))
		return nil
	})
	return count, err
}

func (r *SaleRepository) SaveLines(ctx context.Context, saleID id.ID, lines []sale.Line) error {
	return r.store.update(ctx, func(db *database) error {
		db.SaleLines[saleID] = append([]sale.Line(nil), lines...)
		return nil
	})
}

func (r *SaleRepository) DeleteLines(ctx context.Context, saleID id.ID) error {
	return r.store.update(ctx, func(db *database) error {
		delete(db.SaleLines, saleID)
		return nil
	})
}

func (r *SaleRepository) GetLines(ctx context.Context, saleID id.ID) ([]sale.Line, error) {
	var out []sale.Line
	err := r.store.view(ctx, func(db *database) error {
		out = append([]sale.Line(nil), db.SaleLines[saleID]...)
		return nil
	})
	return out, err
}

func (r *SaleRepository) SaveExams(ctx context.Context, saleID id.ID, exams []sale.Examination) error {
	return r.store.update(ctx, func(db *database) error {
		db.SaleExams[saleID] = append([]sale.Examination(nil), exams...)
		return nil
	})
}

func (r *SaleRepository) DeleteExams(ctx context.Context, saleID id.ID) error {
	return r.store.update(ctx, func(db *database) error {
		delete(db.SaleExams, saleID)
		return nil
	})
}

func (r *SaleRepository) GetExams(ctx context.Context, saleID id.ID) ([]sale.Examination, error) {
	var out []sale.Examination
	err := r.store.view(ctx, func(db *database) error {
		out = append([]sale.Examination(nil), db.SaleExams[saleID]...)
		return nil
	})
	return out, err
}

func (r *SaleRepository) DistinctExamLensTypeNames(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	err := r.store.view(ctx, func(db *database) error {
		for _, exams := range db.SaleExams {
			for _, ex := range exams {
				if ex.LensType != "" && !seen[ex.LensType] {
					seen[ex.LensType] = true
					out = append(out, ex.LensType)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
