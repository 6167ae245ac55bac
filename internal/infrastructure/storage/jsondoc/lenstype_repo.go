package jsondoc

import (
	"context"
	"sort"

	"optipos/internal/core/apperror"
	"optipos/internal/domain/catalogs/lenstype"
)

// LensTypeRepository implements lenstype.Repository over the document store.
type LensTypeRepository struct {
	store *Store
}

// NewLensTypeRepository creates a new lens-type repository.
func NewLensTypeRepository(store *Store) *LensTypeRepository {
	return &LensTypeRepository{store: store}
}

var _ lenstype.Repository = (*LensTypeRepository)(nil)

func (r *LensTypeRepository) Create(ctx context.Context, l *lenstype.LensType) error {
	return r.store.update(ctx, func(db *database) error {
		for _, existing := range db.LensTypes {
			if existing.Name == l.Name {
				return apperror.NewDuplicate("lens type", "name", l.Name)
			}
		}
		stored := *l
		db.LensTypes[l.ID] = &stored
		return nil
	})
}

func (r *LensTypeRepository) FindByName(ctx context.Context, name string) (*lenstype.LensType, error) {
	var out *lenstype.LensType
	err := r.store.view(ctx, func(db *database) error {
		for _, stored := range db.LensTypes {
			if stored.Name == name {
				l := *stored
				out = &l
				return nil
			}
		}
		return apperror.NewNotFound("lens type", name)
	})
	return out, err
}

func (r *LensTypeRepository) List(ctx context.Context) ([]*lenstype.LensType, error) {
	var out []*lenstype.LensType
	err := r.store.view(ctx, func(db *database) error {
		for _, stored := range db.LensTypes {
			l := *stored
			out = append(out, &l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *LensTypeRepository) DeleteWhereNameNotIn(ctx context.Context, referenced []string) (int64, error) {
	keep := make(map[string]bool, len(referenced))
	for _, name := range referenced {
		keep[name] = true
	}

	var deleted int64
	err := r.store.update(ctx, func(db *database) error {
		for key, stored := range db.LensTypes {
			if !keep[stored.Name] {
				delete(db.LensTypes, key)
				deleted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
