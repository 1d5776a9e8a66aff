package usecase

import (
	"context"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
)

// AdminUseCase backs the moderation dashboard. Authorization is enforced by
// the admin middleware in front of its handlers.
type AdminUseCase struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	storage     BlobStorage
}

func NewAdminUseCase(userRepo repository.UserRepository, listingRepo repository.ListingRepository, storage BlobStorage) *AdminUseCase {
	return &AdminUseCase{
		userRepo:    userRepo,
		listingRepo: listingRepo,
		storage:     storage,
	}
}

type DashboardStats struct {
	TotalUsers     int `json:"total_users"`
	TotalListings  int `json:"total_listings"`
	ActiveListings int `json:"active_listings"`
	SoldListings   int `json:"sold_listings"`
}

func (uc *AdminUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.List(ctx)
}

func (uc *AdminUseCase) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	return uc.userRepo.SetAdmin(ctx, userID, isAdmin)
}

func (uc *AdminUseCase) ListListings(ctx context.Context) ([]*entity.Listing, error) {
	return uc.listingRepo.ListAll(ctx)
}

func (uc *AdminUseCase) SetListingStatus(ctx context.Context, listingID, status string) error {
	if !entity.ValidListingStatus(status) {
		return errors.Validation("Unknown listing status", nil)
	}

	return uc.listingRepo.UpdateStatus(ctx, listingID, status)
}

// DeleteListing removes any listing regardless of owner, cleaning up its
// images best-effort.
func (uc *AdminUseCase) DeleteListing(ctx context.Context, listingID string) error {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}

	if err := uc.listingRepo.Delete(ctx, listingID); err != nil {
		return err
	}

	deleteListingImages(ctx, uc.storage, listing)

	return nil
}

func (uc *AdminUseCase) Stats(ctx context.Context) (*DashboardStats, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	listings, err := uc.listingRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalUsers:    len(users),
		TotalListings: len(listings),
	}
	for _, l := range listings {
		switch l.Status {
		case entity.ListingStatusActive:
			stats.ActiveListings++
		case entity.ListingStatusSold:
			stats.SoldListings++
		}
	}

	return stats, nil
}
