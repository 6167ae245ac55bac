// Package document_repo provides PostgreSQL implementations for document
// repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"optipos/internal/core/apperror"
	"optipos/internal/core/id"
	"optipos/internal/domain/documents/sale"
	"optipos/internal/infrastructure/storage/postgres"
)

const (
	saleTable     = "doc_sales"
	saleLineTable = "doc_sale_lines"
	saleExamTable = "doc_sale_exams"
)

var saleColumns = []string{
	"id", "invoice_no", "customer_id", "warehouse_id",
	"gross", "discount", "net", "amount_paid", "balance",
	"lab_status", "revision", "created_at", "updated_at",
}

var lineColumns = []string{"id", "sale_id", "product_id", "quantity", "unit_price", "line_total"}

var examColumns = []string{
	"id", "sale_id", "exam_type",
	"right_sphere", "right_cylinder", "right_axis",
	"left_sphere", "left_cylinder", "left_axis", "ipd",
	"lens_type", "frame", "frame_condition", "color", "image_path",
	"created_at",
}

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ sale.Repository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	q := r.builder.Insert(saleTable).
		Columns(saleColumns...).
		Values(s.ID, s.InvoiceNo, s.CustomerID, s.WarehouseID,
			s.Gross, s.Discount, s.Net, s.AmountPaid, s.Balance,
			s.LabStatus, s.Revision, s.CreatedAt, s.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("sale", "invoice_no", s.InvoiceNo)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) Update(ctx context.Context, s *sale.Sale) error {
	q := r.builder.Update(saleTable).
		Set("customer_id", s.CustomerID).
		Set("warehouse_id", s.WarehouseID).
		Set("gross", s.Gross).
		Set("discount", s.Discount).
		Set("net", s.Net).
		Set("amount_paid", s.AmountPaid).
		Set("balance", s.Balance).
		Set("lab_status", s.LabStatus).
		Set("revision", s.Revision).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", s.ID)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	return r.getOne(ctx, squirrel.Eq{"id": saleID}, saleID)
}

func (r *SaleRepo) GetByInvoice(ctx context.Context, invoiceNo string) (*sale.Sale, error) {
	return r.getOne(ctx, squirrel.Eq{"invoice_no": invoiceNo}, invoiceNo)
}

func (r *SaleRepo) getOne(ctx context.Context, where squirrel.Eq, ref any) (*sale.Sale, error) {
	q := r.builder.Select(saleColumns...).From(saleTable).Where(where)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sale.Sale
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperror.NewNotFound("sale", ref)
		}
		return nil, fmt.Errorf("select sale: %w", err)
	}
	return &s, nil
}

func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	q := r.builder.Select(saleColumns...).From(saleTable).OrderBy("created_at DESC")

	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.InvoiceQuery != "" {
		q = q.Where(squirrel.Like{"invoice_no": "%" + filter.InvoiceQuery + "%"})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.To})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sales []*sale.Sale
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &sales, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}
	return sales, nil
}

func (r *SaleRepo) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.builder.Select("COUNT(*)").From(saleTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return count, nil
}

func (r *SaleRepo) SaveLines(ctx context.Context, saleID id.ID, lines []sale.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.builder.Insert(saleLineTable).Columns(lineColumns...)
	for _, line := range lines {
		q = q.Values(line.ID, saleID, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

func (r *SaleRepo) DeleteLines(ctx context.Context, saleID id.ID) error {
	sql, args, err := r.builder.Delete(saleLineTable).
		Where(squirrel.Eq{"sale_id": saleID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetLines(ctx context.Context, saleID id.ID) ([]sale.Line, error) {
	q := r.builder.Select(lineColumns...).From(saleLineTable).
		Where(squirrel.Eq{"sale_id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []sale.Line
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select lines: %w", err)
	}
	return lines, nil
}

func (r *SaleRepo) SaveExams(ctx context.Context, saleID id.ID, exams []sale.Examination) error {
	if len(exams) == 0 {
		return nil
	}

	q := r.builder.Insert(saleExamTable).Columns(examColumns...)
	for _, ex := range exams {
		q = q.Values(ex.ID, saleID, ex.ExamType,
			ex.RightSphere, ex.RightCylinder, ex.RightAxis,
			ex.LeftSphere, ex.LeftCylinder, ex.LeftAxis, ex.IPD,
			ex.LensType, ex.Frame, ex.FrameCondition, ex.Color, ex.ImagePath,
			ex.CreatedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert examinations: %w", err)
	}
	return nil
}

func (r *SaleRepo) DeleteExams(ctx context.Context, saleID id.ID) error {
	sql, args, err := r.builder.Delete(saleExamTable).
		Where(squirrel.Eq{"sale_id": saleID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete examinations: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetExams(ctx context.Context, saleID id.ID) ([]sale.Examination, error) {
	q := r.builder.Select(examColumns...).From(saleExamTable).
		Where(squirrel.Eq{"sale_id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var exams []sale.Examination
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &exams, sql, args...); err != nil {
		return nil, fmt.Errorf("select examinations: %w", err)
	}
	return exams, nil
}

func (r *SaleRepo) DistinctExamLensTypeNames(ctx context.Context) ([]string, error) {
	q := r.builder.Select("DISTINCT lens_type").From(saleExamTable).
		Where(squirrel.NotEq{"lens_type": ""}).
		OrderBy("lens_type")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var names []string
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &names, sql, args...); err != nil {
		return nil, fmt.Errorf("select lens type names: %w", err)
	}
	return names, nil
}
