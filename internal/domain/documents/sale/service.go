package sale

import (
	"context"
	"fmt"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
	"optipos/internal/core/id"
	"optipos/internal/core/tx"
	"optipos/internal/core/types"
	"optipos/internal/domain/catalogs/customer"
	"optipos/internal/domain/catalogs/product"
	"optipos/internal/domain/catalogs/resolver"
	"optipos/internal/domain/numerator"
	"optipos/internal/domain/registers/stock"
	"optipos/pkg/logger"
)

// CustomerInput carries inline customer fields for orders that create the
// customer record together with the sale.
type CustomerInput struct {
	Name    string
	Phone   string
	Address string
}

// CartLine is one prospective order line. Either ProductID or ProductName
// must be set; a bare name resolves (or auto-creates) a Frame product.
type CartLine struct {
	ProductID   id.ID
	ProductName string
	Quantity    int64

	// UnitPrice overrides the catalog sale price when non-nil
	UnitPrice *types.Money
}

// ExamInput is one prospective examination row.
type ExamInput struct {
	ExamType      string
	RightSphere   string
	RightCylinder string
	RightAxis     string
	LeftSphere    string
	LeftCylinder  string
	LeftAxis      string
	IPD           string

	LensType       string
	Frame          string
	FrameCondition string
	Color          string
	ImagePath      string
}

// Input is a prospective order: all user input is collected before the
// transaction opens, so no operation holds a lock across an interaction
// pause.
type Input struct {
	// CustomerID references an existing customer; nil with no NewCustomer
	// means a walk-in order
	CustomerID  *id.ID
	NewCustomer *CustomerInput

	// WarehouseID may be nil: deductions then target the default warehouse
	WarehouseID id.ID

	Lines []CartLine
	Exams []ExamInput

	Gross      types.Money
	Discount   types.Money
	AmountPaid types.Money

	LabStatus LabStatus
}

// Validate checks the input before any persistence attempt.
func (in *Input) Validate(ctx context.Context) error {
	if len(in.Lines) == 0 && len(in.Exams) == 0 {
		return apperror.NewValidation("order needs at least one cart line or examination")
	}

	if in.NewCustomer != nil && in.NewCustomer.Name == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customer.name")
	}

	for i, line := range in.Lines {
		if id.IsNil(line.ProductID) && line.ProductName == "" {
			return apperror.NewValidation("cart line needs a product reference").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("lineNo", i+1)
		}
	}

	if in.Gross.IsNegative() || in.Discount.IsNegative() || in.AmountPaid.IsNegative() {
		return apperror.NewValidation("totals cannot be negative")
	}

	if in.LabStatus != "" && !IsValidLabStatus(in.LabStatus) {
		return apperror.NewValidation("invalid lab status").
			WithDetail("field", "labStatus").
			WithDetail("value", string(in.LabStatus))
	}

	return nil
}

// Service composes cart lines, ledger deductions, examination rows and
// customer linkage into one committed unit.
type Service struct {
	repo      Repository
	customers customer.Repository
	products  product.Repository
	ledger    *stock.Service
	catalogs  *resolver.Service
	numbers   *numerator.Service
	txManager tx.Manager
}

// NewService creates a new Sale service.
func NewService(
	repo Repository,
	customers customer.Repository,
	products product.Repository,
	ledger *stock.Service,
	catalogs *resolver.Service,
	numbers *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		products:  products,
		ledger:    ledger,
		catalogs:  catalogs,
		numbers:   numbers,
		txManager: txManager,
	}
}

// Create commits a new order as one unit: invoice number, product
// resolution, strict stock deductions, line and examination rows, totals.
// On any failure nothing is persisted.
func (s *Service) Create(ctx context.Context, in Input) (*Sale, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	var doc *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		invoiceNo, err := s.numbers.NextInvoiceNo(ctx)
		if err != nil {
			return fmt.Errorf("next invoice number: %w", err)
		}

		customerID, err := s.resolveCustomer(ctx, in)
		if err != nil {
			return err
		}

		doc = &Sale{
			BaseDocument: entity.NewBaseDocument(),
			InvoiceNo:    invoiceNo,
			CustomerID:   customerID,
			WarehouseID:  in.WarehouseID,
			Gross:        in.Gross,
			Discount:     in.Discount,
			AmountPaid:   in.AmountPaid,
			LabStatus:    labStatusOrDefault(in.LabStatus),
			Revision:     1,
		}

		if err := s.buildContents(ctx, doc, in, nil); err != nil {
			return err
		}

		doc.ComputeTotals()
		if err := doc.Validate(ctx); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		if err := s.repo.SaveExams(ctx, doc.ID, doc.Exams); err != nil {
			return fmt.Errorf("save examinations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale committed",
		"id", doc.ID,
		"invoice_no", doc.InvoiceNo,
		"lines", len(doc.Lines),
		"exams", len(doc.Exams),
	)
	return doc, nil
}

// Update replaces an order's contents under its existing invoice number.
// The stock effect of the previous revision is fully reversed before the
// new revision deducts, so the net ledger effect is always exactly that of
// the latest revision.
func (s *Service) Update(ctx context.Context, saleID id.ID, in Input) (*Sale, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	var doc *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.getHydrated(ctx, saleID)
		if err != nil {
			return err
		}

		oldMovements, err := s.ledger.MovementsByRef(ctx, existing.InvoiceNo, existing.Revision)
		if err != nil {
			return err
		}

		// Reverse the previous revision's entire stock effect before
		// re-deducting: sale deductions and the made-to-order receipts
		// paired with them. Products with a reversed receipt stay made
		// to order for the new revision, which re-receives them at the
		// new quantity. Their receipts therefore always offset their
		// deductions exactly, whatever the quantity change.
		reversals := make([]entity.StockMovement, 0, len(oldMovements))
		madeToOrder := make(map[id.ID]bool)
		for _, m := range oldMovements {
			switch m.Kind {
			case entity.MovementSale:
				reversals = append(reversals, m)
			case entity.MovementInitial:
				reversals = append(reversals, m)
				madeToOrder[m.ProductID] = true
			}
		}
		if err := s.ledger.ReverseMovements(ctx, reversals, "order update"); err != nil {
			return err
		}

		if err := s.repo.DeleteLines(ctx, existing.ID); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}
		if err := s.repo.DeleteExams(ctx, existing.ID); err != nil {
			return fmt.Errorf("delete examinations: %w", err)
		}

		customerID, err := s.resolveCustomer(ctx, in)
		if err != nil {
			return err
		}

		existing.CustomerID = customerID
		existing.WarehouseID = in.WarehouseID
		existing.Gross = in.Gross
		existing.Discount = in.Discount
		existing.AmountPaid = in.AmountPaid
		existing.LabStatus = labStatusOrDefault(in.LabStatus)
		existing.Revision++
		existing.Lines = nil
		existing.Exams = nil

		if err := s.buildContents(ctx, existing, in, madeToOrder); err != nil {
			return err
		}

		existing.ComputeTotals()
		if err := existing.Validate(ctx); err != nil {
			return err
		}
		existing.Touch()

		if err := s.repo.Update(ctx, existing); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		if err := s.repo.SaveLines(ctx, existing.ID, existing.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		if err := s.repo.SaveExams(ctx, existing.ID, existing.Exams); err != nil {
			return fmt.Errorf("save examinations: %w", err)
		}

		if _, err := s.catalogs.CleanupUnusedLensTypes(ctx); err != nil {
			return err
		}

		doc = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale updated",
		"id", doc.ID,
		"invoice_no", doc.InvoiceNo,
		"revision", doc.Revision,
	)
	return doc, nil
}

// GetByID retrieves a sale with lines and examinations.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	return s.getHydrated(ctx, saleID)
}

// GetByInvoice retrieves a sale by invoice number.
func (s *Service) GetByInvoice(ctx context.Context, invoiceNo string) (*Sale, error) {
	doc, err := s.repo.GetByInvoice(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, doc)
}

// List retrieves sales matching the filter, hydrated.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	docs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if _, err := s.hydrate(ctx, doc); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// --- internals ---

func labStatusOrDefault(status LabStatus) LabStatus {
	if status == "" {
		return LabPending
	}
	return status
}

func (s *Service) getHydrated(ctx context.Context, saleID id.ID) (*Sale, error) {
	doc, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, doc)
}

func (s *Service) hydrate(ctx context.Context, doc *Sale) (*Sale, error) {
	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	exams, err := s.repo.GetExams(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get examinations: %w", err)
	}
	doc.Exams = exams

	return doc, nil
}

// resolveCustomer returns the order's customer id: an existing reference,
// a customer created inline within the transaction, or nil for walk-in.
func (s *Service) resolveCustomer(ctx context.Context, in Input) (*id.ID, error) {
	if in.CustomerID != nil {
		if _, err := s.customers.GetByID(ctx, *in.CustomerID); err != nil {
			return nil, err
		}
		return in.CustomerID, nil
	}

	if in.NewCustomer != nil {
		c := customer.New(in.NewCustomer.Name, in.NewCustomer.Phone, in.NewCustomer.Address)
		if err := s.customers.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		return &c.ID, nil
	}

	return nil, nil // walk-in
}

// buildContents materializes products, records strict deductions and fills
// doc.Lines and doc.Exams. madeToOrder marks products whose previous
// revision receipts were reversed; they are re-received like freshly
// created ones so the strict deduction holds at the new quantity.
func (s *Service) buildContents(ctx context.Context, doc *Sale, in Input, madeToOrder map[id.ID]bool) error {
	deducted := make(map[id.ID]bool)

	for _, line := range in.Lines {
		p, created, err := s.resolveLineProduct(ctx, line)
		if err != nil {
			return err
		}

		unitPrice := p.SalePrice
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}

		// A product materialized by this very order is made to order:
		// receive it first so the strict deduction holds and stock never
		// goes negative.
		if created || madeToOrder[p.ID] {
			if err := s.ledger.RecordOrderReceipt(ctx, p.ID, doc.WarehouseID, line.Quantity, doc.InvoiceNo, doc.Revision, "made to order"); err != nil {
				return err
			}
		}

		if err := s.ledger.DeductForSale(ctx, p.ID, doc.WarehouseID, line.Quantity, doc.InvoiceNo, doc.Revision); err != nil {
			return err
		}
		deducted[p.ID] = true

		doc.Lines = append(doc.Lines, Line{
			ID:        id.New(),
			SaleID:    doc.ID,
			ProductID: p.ID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			LineTotal: unitPrice.Mul(types.NewMoneyFromInt(line.Quantity)),
		})
	}

	for _, ex := range in.Exams {
		if ex.LensType != "" {
			if _, err := s.catalogs.ResolveOrCreateLensType(ctx, ex.LensType); err != nil {
				return err
			}
		}

		// A "New" frame implies exactly one stock deduction, whether or
		// not the frame was separately added to the cart.
		if ex.FrameCondition == FrameConditionNew && ex.Frame != "" {
			p, created, err := s.catalogs.ResolveOrCreateFrame(ctx, ex.Frame)
			if err != nil {
				return err
			}

			if !deducted[p.ID] {
				if created || madeToOrder[p.ID] {
					if err := s.ledger.RecordOrderReceipt(ctx, p.ID, doc.WarehouseID, 1, doc.InvoiceNo, doc.Revision, "made to order"); err != nil {
						return err
					}
				}
				if err := s.ledger.DeductForSale(ctx, p.ID, doc.WarehouseID, 1, doc.InvoiceNo, doc.Revision); err != nil {
					return err
				}
				deducted[p.ID] = true
			}
		}

		doc.Exams = append(doc.Exams, Examination{
			ID:             id.New(),
			SaleID:         doc.ID,
			ExamType:       ex.ExamType,
			RightSphere:    ex.RightSphere,
			RightCylinder:  ex.RightCylinder,
			RightAxis:      ex.RightAxis,
			LeftSphere:     ex.LeftSphere,
			LeftCylinder:   ex.LeftCylinder,
			LeftAxis:       ex.LeftAxis,
			IPD:            ex.IPD,
			LensType:       ex.LensType,
			Frame:          ex.Frame,
			FrameCondition: ex.FrameCondition,
			Color:          ex.Color,
			ImagePath:      ex.ImagePath,
			CreatedAt:      doc.UpdatedAt,
		})
	}

	return nil
}

// resolveLineProduct loads the referenced product, or resolves/creates a
// Frame product from free text.
func (s *Service) resolveLineProduct(ctx context.Context, line CartLine) (*product.Product, bool, error) {
	if !id.IsNil(line.ProductID) {
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, false, err
		}
		return p, false, nil
	}
	return s.catalogs.ResolveOrCreateFrame(ctx, line.ProductName)
}
