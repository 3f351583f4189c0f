package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Service resolves SKUs against the catalog and manages pre-pack stock.
type Service interface {
	// Resolve classifies a SKU as packet, bulk, misc or not found. A missing
	// SKU is not an error; only lookup failures are.
	Resolve(ctx context.Context, sku string) (Resolution, error)

	// ResolveAll resolves every distinct SKU, keyed by normalized SKU.
	ResolveAll(ctx context.Context, skus []string) (map[string]Resolution, error)

	// Restock adds newly pre-packed units to a bulk product's counter.
	Restock(ctx context.Context, req RestockRequest) (*Product, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Resolve(ctx context.Context, sku string) (Resolution, error) {
	sku = NormalizeSKU(sku)
	res := Resolution{SKU: sku, Kind: KindNotFound}
	if sku == "" {
		return res, nil
	}

	if prefix, suffix, ok := SplitSKU(sku); ok {
		p, err := s.repo.GetProduct(ctx, prefix, suffix)
		switch {
		case err == nil:
			res.Product = p
			res.Kind = KindBulk
			if p.IsPacket() {
				res.Kind = KindPacket
			}
			return res, nil
		case !errors.Is(err, sql.ErrNoRows):
			return res, fmt.Errorf("lookup product %s: %w", sku, err)
		}
	}

	m, err := s.repo.GetMiscProduct(ctx, sku)
	switch {
	case err == nil:
		res.Misc = m
		res.Kind = KindMisc
	case !errors.Is(err, sql.ErrNoRows):
		return res, fmt.Errorf("lookup misc product %s: %w", sku, err)
	}
	return res, nil
}

func (s *service) ResolveAll(ctx context.Context, skus []string) (map[string]Resolution, error) {
	out := make(map[string]Resolution, len(skus))
	for _, sku := range skus {
		sku = NormalizeSKU(sku)
		if _, done := out[sku]; done {
			continue
		}
		res, err := s.Resolve(ctx, sku)
		if err != nil {
			return nil, err
		}
		out[sku] = res
	}
	return out, nil
}

func (s *service) Restock(ctx context.Context, req RestockRequest) (*Product, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be greater than zero")
	}
	res, err := s.Resolve(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if res.Kind != KindBulk {
		return nil, fmt.Errorf("sku %s is not a bulk product (%s)", res.SKU, res.Kind)
	}
	total, err := s.repo.AddPrepackStock(ctx, res.Product.ID, req.Quantity)
	if err != nil {
		return nil, err
	}
	res.Product.PrepackStock = total
	return res.Product, nil
}
