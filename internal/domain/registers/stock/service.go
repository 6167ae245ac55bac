package stock

import (
	"context"
	"fmt"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
	"optipos/internal/core/id"
	"optipos/internal/domain/catalogs/warehouse"
	"optipos/pkg/logger"
)

// Service provides business operations for the stock ledger.
// Transactions are managed by the caller: every mutating operation here
// must run inside the transaction of the document it serves.
type Service struct {
	repo       Repository
	warehouses warehouse.Repository
}

// NewService creates a new stock ledger service.
func NewService(repo Repository, warehouses warehouse.Repository) *Service {
	return &Service{
		repo:       repo,
		warehouses: warehouses,
	}
}

// resolveWarehouse returns the given warehouse id, or the default warehouse
// when none was supplied. Fails with CodeNoWarehouse if no warehouse exists.
func (s *Service) resolveWarehouse(ctx context.Context, warehouseID id.ID) (id.ID, error) {
	if !id.IsNil(warehouseID) {
		return warehouseID, nil
	}

	def, err := s.warehouses.GetDefault(ctx)
	if err != nil {
		return id.Nil(), err
	}
	return def.ID, nil
}

// Available returns the current stock of a product: the sum of all its
// movement quantities, optionally scoped to one warehouse.
func (s *Service) Available(ctx context.Context, productID id.ID, warehouseID *id.ID) (int64, error) {
	return s.repo.SumByProduct(ctx, productID, warehouseID)
}

// Record appends one immutable signed movement and returns its id.
// Zero quantity is allowed: auto-created products start with a
// zero-quantity initial movement.
func (s *Service) Record(ctx context.Context, productID, warehouseID id.ID, qty int64, kind entity.MovementKind, refNo, note string) (id.ID, error) {
	if id.IsNil(productID) {
		return id.Nil(), apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if !entity.IsValidMovementKind(kind) {
		return id.Nil(), apperror.NewValidation("invalid movement kind").
			WithDetail("field", "kind").
			WithDetail("value", string(kind))
	}

	wh, err := s.resolveWarehouse(ctx, warehouseID)
	if err != nil {
		return id.Nil(), err
	}

	m := entity.NewStockMovement(productID, wh, qty, kind, refNo, 0, note)
	if err := s.repo.CreateMovement(ctx, m); err != nil {
		return id.Nil(), fmt.Errorf("record movement: %w", err)
	}

	logger.Debug(ctx, "stock movement recorded",
		"movement_id", m.ID,
		"product_id", productID,
		"qty", qty,
		"kind", kind,
	)

	return m.ID, nil
}

// DeductForSale is the strict sale deduction: it verifies availability in
// the target warehouse before recording the negated delta. This is the only
// sale deduction contract; there is no unchecked path.
func (s *Service) DeductForSale(ctx context.Context, productID, warehouseID id.ID, qty int64, refNo string, refVersion int) error {
	if qty <= 0 {
		return apperror.NewValidation("sale quantity must be positive").
			WithDetail("field", "qty")
	}

	wh, err := s.resolveWarehouse(ctx, warehouseID)
	if err != nil {
		return err
	}

	available, err := s.repo.SumByProduct(ctx, productID, &wh)
	if err != nil {
		return fmt.Errorf("compute availability: %w", err)
	}

	if available < qty {
		return apperror.NewInsufficientStock(productID.String(), qty, available)
	}

	m := entity.NewStockMovement(productID, wh, -qty, entity.MovementSale, refNo, refVersion, "")
	if err := s.repo.CreateMovement(ctx, m); err != nil {
		return fmt.Errorf("record sale deduction: %w", err)
	}

	return nil
}

// RecordOrderReceipt records a receipt attributed to a sale document
// (made-to-order products materialized during order creation).
func (s *Service) RecordOrderReceipt(ctx context.Context, productID, warehouseID id.ID, qty int64, refNo string, refVersion int, note string) error {
	wh, err := s.resolveWarehouse(ctx, warehouseID)
	if err != nil {
		return err
	}

	m := entity.NewStockMovement(productID, wh, qty, entity.MovementInitial, refNo, refVersion, note)
	if err := s.repo.CreateMovement(ctx, m); err != nil {
		return fmt.Errorf("record order receipt: %w", err)
	}
	return nil
}

// Replace records one corrective movement so that the product's stock in
// the warehouse becomes newAbsoluteQty. "Set to X" edits always translate
// into a delta event, never a direct field write.
func (s *Service) Replace(ctx context.Context, productID, warehouseID id.ID, newAbsoluteQty int64, note string) (int64, error) {
	wh, err := s.resolveWarehouse(ctx, warehouseID)
	if err != nil {
		return 0, err
	}

	available, err := s.repo.SumByProduct(ctx, productID, &wh)
	if err != nil {
		return 0, fmt.Errorf("compute availability: %w", err)
	}

	delta := newAbsoluteQty - available
	if delta == 0 {
		return 0, nil
	}

	m := entity.NewStockMovement(productID, wh, delta, entity.MovementAdjustment, "", 0, note)
	if err := s.repo.CreateMovement(ctx, m); err != nil {
		return 0, fmt.Errorf("record adjustment: %w", err)
	}

	logger.Info(ctx, "stock replaced",
		"product_id", productID,
		"warehouse_id", wh,
		"new_qty", newAbsoluteQty,
		"delta", delta,
	)

	return delta, nil
}

// MovementsByRef returns movements attributed to (refNo, refVersion),
// oldest first.
func (s *Service) MovementsByRef(ctx context.Context, refNo string, refVersion int) ([]entity.StockMovement, error) {
	return s.repo.ListByRef(ctx, refNo, refVersion)
}

// ReverseMovements records an equal-and-opposite return movement for each
// given movement. The reversals carry revision 0, so a later reversal pass
// never touches them again.
func (s *Service) ReverseMovements(ctx context.Context, movements []entity.StockMovement, note string) error {
	for _, m := range movements {
		reversal := m.Reversal(note)
		if err := s.repo.CreateMovement(ctx, reversal); err != nil {
			return fmt.Errorf("record reversal: %w", err)
		}
	}

	if len(movements) > 0 {
		logger.Info(ctx, "stock movements reversed",
			"ref_no", movements[0].RefNo,
			"count", len(movements),
		)
	}

	return nil
}

// MovementHistory returns movement history for a product.
func (s *Service) MovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	return s.repo.ListByProduct(ctx, productID, filter)
}
