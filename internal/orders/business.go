package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/01moynul/marketd/internal/access"
	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/store"
)

// CreateBusiness onboards a business for the calling vendor. Names map to a
// unique slug; a second business with the same slug is a conflict.
func (s *Service) CreateBusiness(ctx context.Context, actor access.Actor, name string) (*models.Business, error) {
	if !actor.Can(access.CreateBusiness, access.Resource{VendorID: actor.ID()}) {
		return nil, ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	businessSlug := slug.Make(name)
	if businessSlug == "" {
		return nil, validationf("business name %q has no usable characters", name)
	}

	b := &models.Business{
		VendorID:  actor.ID(),
		Name:      name,
		Slug:      businessSlug,
		CreatedAt: s.now(),
	}
	err := s.store.InsertBusiness(ctx, s.store.DB(), b)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, fmt.Errorf("%w: business slug %q is taken", ErrConflict, businessSlug)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
