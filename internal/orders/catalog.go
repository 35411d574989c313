package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/01moynul/marketd/internal/access"
	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/store"
)

// ProductInput lists a new product under a business.
type ProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationf("product name is required")
	}
	if !in.Price.IsPositive() {
		return validationf("price must be greater than zero")
	}
	if in.Price.Exponent() < -2 {
		return validationf("price %s has more than two decimal places", in.Price)
	}
	if in.Stock < 0 {
		return validationf("stock cannot be negative")
	}
	return nil
}

// CreateProduct lists a product under one of the calling vendor's businesses.
func (s *Service) CreateProduct(ctx context.Context, actor access.Actor, businessID int64, in ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	business, err := s.store.GetBusiness(ctx, s.store.DB(), businessID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: business %d", ErrNotFound, businessID)
	}
	if err != nil {
		return nil, err
	}
	if !actor.Can(access.ManageCatalog, access.Resource{VendorID: business.VendorID}) {
		return nil, ErrUnauthorized
	}

	now := s.now()
	p := &models.Product{
		BusinessID: business.ID,
		Name:       strings.TrimSpace(in.Name),
		Price:      in.Price,
		Stock:      in.Stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.InsertProduct(ctx, s.store.DB(), p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct is the public catalog lookup.
func (s *Service) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	p, err := s.store.GetProduct(ctx, s.store.DB(), productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	return p, err
}
