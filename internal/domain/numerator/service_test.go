package numerator

import (
	"context"
	"errors"
	"testing"

	"optipos/internal/domain/catalogs/product"
)

type fakeSaleCounter struct {
	count int64
	err   error
}

func (f *fakeSaleCounter) Count(ctx context.Context) (int64, error) {
	return f.count, f.err
}

type fakeSKUCounter struct {
	counts map[string]int64
}

func (f *fakeSKUCounter) CountBySKUPrefix(ctx context.Context, prefix string) (int64, error) {
	return f.counts[prefix], nil
}

func TestNextInvoiceNo(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  string
	}{
		{name: "first invoice", count: 0, want: "000001"},
		{name: "sequential", count: 41, want: "000042"},
		{name: "pad exceeded", count: 1234567, want: "1234568"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeSaleCounter{count: tt.count}, &fakeSKUCounter{}, DefaultConfig())

			got, err := svc.NextInvoiceNo(context.Background())
			if err != nil {
				t.Fatalf("NextInvoiceNo failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("invoice number mismatch\nwant: %s\ngot:  %s", tt.want, got)
			}
		})
	}
}

func TestNextInvoiceNoCounterError(t *testing.T) {
	svc := NewService(&fakeSaleCounter{err: errors.New("boom")}, &fakeSKUCounter{}, DefaultConfig())

	if _, err := svc.NextInvoiceNo(context.Background()); err == nil {
		t.Fatal("expected error from failing counter")
	}
}

func TestGenerateSKU(t *testing.T) {
	tests := []struct {
		name     string
		category product.Category
		existing int64
		want     string
	}{
		{name: "first frame", category: product.CategoryFrame, existing: 0, want: "20001"},
		{name: "lens sequence", category: product.CategoryLens, existing: 12, want: "10013"},
		{name: "sunglasses", category: product.CategorySunglasses, existing: 3, want: "30004"},
		{name: "accessory", category: product.CategoryAccessory, existing: 0, want: "40001"},
		{name: "contact lens", category: product.CategoryContactLens, existing: 0, want: "50001"},
		{name: "unknown category", category: product.Category("misc"), existing: 0, want: "00001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := map[string]int64{tt.category.SKUPrefix(): tt.existing}
			svc := NewService(&fakeSaleCounter{}, &fakeSKUCounter{counts: counts}, DefaultConfig())

			got, err := svc.GenerateSKU(context.Background(), tt.category)
			if err != nil {
				t.Fatalf("GenerateSKU failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SKU mismatch\nwant: %s\ngot:  %s", tt.want, got)
			}
		})
	}
}
