package repository

import (
	"context"

	"unimarket/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Listing, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Listing, error)
	ListAll(ctx context.Context) ([]*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}
