package jsondoc

import (
	"context"
	"sort"
	"strings"

	"optipos/internal/core/apperror"
	"optipos/internal/core/id"
	"optipos/internal/domain/catalogs/customer"
)

// CustomerRepository implements customer.Repository over the document store.
type CustomerRepository struct {
	store *Store
}

// NewCustomerRepository creates a new customer repository.
func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

var _ customer.Repository = (*CustomerRepository)(nil)

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	return r.store.update(ctx, func(db *database) error {
		stored := *c
		db.Customers[c.ID] = &stored
		return nil
	})
}

func (r *CustomerRepository) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	var out *customer.Customer
	err := r.store.view(ctx, func(db *database) error {
		stored, ok := db.Customers[customerID]
		if !ok {
			return apperror.NewNotFound("customer", customerID)
		}
		c := *stored
		out = &c
		return nil
	})
	return out, err
}

func (r *CustomerRepository) Search(ctx context.Context, query string) ([]*customer.Customer, error) {
	var out []*customer.Customer
	err := r.store.view(ctx, func(db *database) error {
		q := strings.ToLower(query)
		for _, stored := range db.Customers {
			if q != "" &&
				!strings.Contains(strings.ToLower(stored.Name), q) &&
				!strings.Contains(stored.Phone, query) {
				continue
			}
			c := *stored
			out = append(out, &c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
