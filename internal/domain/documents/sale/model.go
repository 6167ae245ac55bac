// Package sale provides the Sale document: the order-fulfillment
// transaction of the shop. A committed sale owns its lines, examinations
// and the stock movements it generated.
package sale

import (
	"context"
	"time"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
	"optipos/internal/core/id"
	"optipos/internal/core/types"
)

// LabStatus tracks the optical lab workflow for an order.
type LabStatus string

const (
	LabPending   LabStatus = "pending"
	LabOrdered   LabStatus = "ordered"
	LabReady     LabStatus = "ready"
	LabDelivered LabStatus = "delivered"
)

// IsValidLabStatus reports whether s is a known lab status.
func IsValidLabStatus(s LabStatus) bool {
	switch s {
	case LabPending, LabOrdered, LabReady, LabDelivered:
		return true
	}
	return false
}

// FrameConditionNew marks an examination frame that implies a stock
// deduction: the frame may never appear as a separate cart line.
const FrameConditionNew = "New"

// Sale represents a committed order.
// State machine: Draft -> Committed -> (Updated)* -> Committed. There is no
// cancelled state; cancellation is a full reversal-then-recreate update.
type Sale struct {
	entity.BaseDocument

	// InvoiceNo is unique and monotonic under single-threaded use
	InvoiceNo string `db:"invoice_no" json:"invoiceNo"`

	// CustomerID is nil for walk-in orders
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Totals: Net = Gross - Discount; Balance = Net - AmountPaid
	Gross      types.Money `db:"gross" json:"gross"`
	Discount   types.Money `db:"discount" json:"discount"`
	Net        types.Money `db:"net" json:"net"`
	AmountPaid types.Money `db:"amount_paid" json:"amountPaid"`
	Balance    types.Money `db:"balance" json:"balance"`

	LabStatus LabStatus `db:"lab_status" json:"labStatus"`

	// Revision tracks replace-style updates; the movements a revision
	// produced carry it for precise reversal
	Revision int `db:"revision" json:"revision"`

	Lines []Line        `db:"-" json:"lines"`
	Exams []Examination `db:"-" json:"examinations"`
}

// Line is one cart line with price snapshots: later catalog price edits
// never alter historical orders.
type Line struct {
	ID        id.ID `db:"id" json:"id"`
	SaleID    id.ID `db:"sale_id" json:"saleId"`
	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity  int64       `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// Examination is one optical prescription row attached to a sale.
type Examination struct {
	ID     id.ID `db:"id" json:"id"`
	SaleID id.ID `db:"sale_id" json:"saleId"`

	ExamType string `db:"exam_type" json:"examType,omitempty"`

	// Per-eye prescription values, kept as entered
	RightSphere   string `db:"right_sphere" json:"rightSphere,omitempty"`
	RightCylinder string `db:"right_cylinder" json:"rightCylinder,omitempty"`
	RightAxis     string `db:"right_axis" json:"rightAxis,omitempty"`
	LeftSphere    string `db:"left_sphere" json:"leftSphere,omitempty"`
	LeftCylinder  string `db:"left_cylinder" json:"leftCylinder,omitempty"`
	LeftAxis      string `db:"left_axis" json:"leftAxis,omitempty"`
	IPD           string `db:"ipd" json:"ipd,omitempty"`

	// Free-text fields that may imply catalog entities
	LensType       string `db:"lens_type" json:"lensType,omitempty"`
	Frame          string `db:"frame" json:"frame,omitempty"`
	FrameCondition string `db:"frame_condition" json:"frameCondition,omitempty"`
	Color          string `db:"color" json:"color,omitempty"`

	ImagePath string `db:"image_path" json:"imagePath,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ComputeTotals derives Net and Balance from the stored components.
func (s *Sale) ComputeTotals() {
	s.Net = s.Gross.Sub(s.Discount)
	s.Balance = s.Net.Sub(s.AmountPaid)
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if s.InvoiceNo == "" {
		return apperror.NewValidation("invoice number is required").
			WithDetail("field", "invoiceNo")
	}

	if len(s.Lines) == 0 && len(s.Exams) == 0 {
		return apperror.NewValidation("order needs at least one cart line or examination")
	}

	if !IsValidLabStatus(s.LabStatus) {
		return apperror.NewValidation("invalid lab status").
			WithDetail("field", "labStatus").
			WithDetail("value", string(s.LabStatus))
	}

	for i, line := range s.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	if s.Gross.IsNegative() || s.Discount.IsNegative() || s.AmountPaid.IsNegative() {
		return apperror.NewValidation("totals cannot be negative")
	}

	return nil
}

var _ entity.Validatable = (*Sale)(nil)
