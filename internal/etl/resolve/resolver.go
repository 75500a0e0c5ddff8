// Package resolve turns business identifiers found in staged payloads into
// core entity ids. Not-found is a distinguishable outcome, never an error:
// callers decide between hard failure (mark the row ERROR) and soft fallback
// (create the missing party).
package resolve

import (
	"context"
	"strings"

	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// NormalizeDocument reduces a CPF/CNPJ to digits only. Anything that does not
// reduce to exactly 11 or 14 digits is treated as "no document"; matching on
// a malformed document would silently attach records to the wrong party.
func NormalizeDocument(value string) string {
	var b strings.Builder
	for _, c := range value {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	digits := b.String()
	if len(digits) == 11 || len(digits) == 14 {
		return digits
	}
	return ""
}

// Resolver looks up core entities referenced by staged payloads.
type Resolver struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
}

func New(customers repository.CustomerRepository, products repository.ProductRepository) *Resolver {
	return &Resolver{customers: customers, products: products}
}

// CustomerByDocument resolves a raw (unnormalized) document to a customer.
// An invalid document resolves to not-found.
func (r *Resolver) CustomerByDocument(ctx context.Context, rawDocument string) (*model.Customer, bool, error) {
	doc := NormalizeDocument(rawDocument)
	if doc == "" {
		return nil, false, nil
	}
	return r.customers.FindByDocument(ctx, doc)
}

// ProductByCode resolves a legacy business code to a core product.
func (r *Resolver) ProductByCode(ctx context.Context, code string) (*model.Product, bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, false, nil
	}
	return r.products.FindByCode(ctx, code)
}

// ProductByBarcode resolves an EAN/barcode to a core product.
func (r *Resolver) ProductByBarcode(ctx context.Context, barcode string) (*model.Product, bool, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, false, nil
	}
	return r.products.FindByBarcode(ctx, barcode)
}
