package inventory

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"LabCV-backend/internal/platform/apierr"
)

// Service はスタッフによる在庫管理。貸出・返却からは呼ばれない（Exists を除く）。
type Service struct {
	store  *Store
	logger *zap.Logger
}

func NewService(conn *sql.DB, logger *zap.Logger) *Service {
	return &Service{store: NewStore(conn), logger: logger}
}

func (s *Service) CreateItem(ctx context.Context, in CreateItemRequest) (ItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ItemResponse{}, apierr.ErrInvalid("name is required")
	}
	qty := 0
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty < 0 {
		return ItemResponse{}, apierr.ErrInvalid("quantity must be >= 0")
	}

	it, err := s.store.Add(ctx, name, qty)
	if err != nil {
		return ItemResponse{}, err
	}
	s.logger.Info("inventory item added", zap.Int64("id", it.ID), zap.String("name", it.Name), zap.Int("quantity", it.Quantity))
	return it.toDTO(), nil
}

func (s *Service) GetItem(ctx context.Context, id int64) (ItemResponse, error) {
	it, err := s.store.Get(ctx, id)
	if err != nil {
		return ItemResponse{}, err
	}
	return it.toDTO(), nil
}

func (s *Service) ListItems(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, it.toDTO())
	}
	return out, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, id int64, quantity int) (ItemResponse, error) {
	if quantity < 0 {
		return ItemResponse{}, apierr.ErrInvalid("quantity must be >= 0")
	}
	it, err := s.store.SetQuantity(ctx, id, quantity)
	if err != nil {
		return ItemResponse{}, err
	}
	s.logger.Info("inventory quantity set", zap.Int64("id", id), zap.Int("quantity", quantity))
	return it.toDTO(), nil
}

func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.Info("inventory item removed", zap.Int64("id", id))
	return nil
}

func (s *Service) Lookup(ctx context.Context, name string) (LookupResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LookupResponse{}, apierr.ErrInvalid("name is required")
	}
	qty, ok, err := s.store.Lookup(ctx, name)
	if err != nil {
		return LookupResponse{}, err
	}
	if !ok {
		return LookupResponse{}, apierr.ErrNotFound("equipment not found")
	}
	return LookupResponse{Name: name, Quantity: qty}, nil
}
