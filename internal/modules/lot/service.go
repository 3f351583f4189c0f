package lot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
)

// Service supplies label fields for print worklists.
type Service interface {
	LabelFields(ctx context.Context, p *catalog.Product) (Label, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

// LabelFields merges the product's own label metadata with its lot, if any.
// A dangling lot reference yields a label without lot code rather than an error.
func (s *service) LabelFields(ctx context.Context, p *catalog.Product) (Label, error) {
	label := Label{Lines: p.LabelLines, PackageSize: p.PackageSize}
	if p.LotID == nil {
		return label, nil
	}
	l, err := s.repo.GetWithLatestTest(ctx, *p.LotID)
	if errors.Is(err, sql.ErrNoRows) {
		return label, nil
	}
	if err != nil {
		return label, fmt.Errorf("load lot for %s: %w", p.SKU(), err)
	}
	label.LotCode = l.LotCode
	label.GerminationRate = l.GerminationRate
	return label, nil
}
