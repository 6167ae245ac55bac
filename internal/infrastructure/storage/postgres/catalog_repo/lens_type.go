package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"optipos/internal/core/apperror"
	"optipos/internal/domain/catalogs/lenstype"
	"optipos/internal/infrastructure/storage/postgres"
)

const lensTypeTable = "cat_lens_types"

// LensTypeRepo implements lenstype.Repository.
type LensTypeRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewLensTypeRepo creates a new lens-type repository.
func NewLensTypeRepo(txm *postgres.TxManager) *LensTypeRepo {
	return &LensTypeRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ lenstype.Repository = (*LensTypeRepo)(nil)

func (r *LensTypeRepo) Create(ctx context.Context, l *lenstype.LensType) error {
	q := r.builder.Insert(lensTypeTable).
		Columns("id", "name").
		Values(l.ID, l.Name)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("lens type", "name", l.Name)
		}
		return fmt.Errorf("insert lens type: %w", err)
	}
	return nil
}

func (r *LensTypeRepo) FindByName(ctx context.Context, name string) (*lenstype.LensType, error) {
	q := r.builder.Select("id", "name").From(lensTypeTable).
		Where(squirrel.Eq{"name": name})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var l lenstype.LensType
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &l, sql, args...); err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperror.NewNotFound("lens type", name)
		}
		return nil, fmt.Errorf("select lens type: %w", err)
	}
	return &l, nil
}

func (r *LensTypeRepo) List(ctx context.Context) ([]*lenstype.LensType, error) {
	q := r.builder.Select("id", "name").From(lensTypeTable).OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var types []*lenstype.LensType
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &types, sql, args...); err != nil {
		return nil, fmt.Errorf("select lens types: %w", err)
	}
	return types, nil
}

func (r *LensTypeRepo) DeleteWhereNameNotIn(ctx context.Context, referenced []string) (int64, error) {
	q := r.builder.Delete(lensTypeTable)
	if len(referenced) > 0 {
		q = q.Where(squirrel.NotEq{"name": referenced})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete lens types: %w", err)
	}
	return tag.RowsAffected(), nil
}
