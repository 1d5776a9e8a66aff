package usecase

import (
	"context"
	"strings"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

const maxListingImages = 5

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	storage     BlobStorage
}

func NewListingUseCase(listingRepo repository.ListingRepository, storage BlobStorage) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		storage:     storage,
	}
}

type ListingInput struct {
	Title       string
	Description string
	Category    string
	Condition   string
	Price       float64
	Images      []string
	Location    *entity.Location
}

func (in *ListingInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.Validation("Title must not be empty", nil)
	}
	if strings.TrimSpace(in.Description) == "" {
		return errors.Validation("Description must not be empty", nil)
	}
	if !containsString(entity.ListingCategories, in.Category) {
		return errors.Validation("Unknown category", nil)
	}
	if !containsString(entity.ListingConditions, in.Condition) {
		return errors.Validation("Unknown condition", nil)
	}
	if in.Price < 0 {
		return errors.Validation("Price must not be negative", nil)
	}
	if len(in.Images) == 0 {
		return errors.Validation("At least one image is required", nil)
	}
	if len(in.Images) > maxListingImages {
		return errors.Validation("Maximum 5 images allowed", nil)
	}
	return nil
}

func (uc *ListingUseCase) Create(ctx context.Context, viewer entity.AuthUser, input ListingInput) (*entity.Listing, error) {
	if viewer.IsZero() {
		return nil, errors.NotAuthenticated("Sign in to create a listing", nil)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Category:        input.Category,
		Condition:       input.Condition,
		Price:           input.Price,
		Images:          input.Images,
		Location:        input.Location,
		UserID:          viewer.UID,
		UserEmail:       viewer.Email,
		UserDisplayName: viewer.SenderName(),
		UserPhotoURL:    viewer.PhotoURL,
		Status:          entity.ListingStatusActive,
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		logger.Error("Create listing failed for user %s: %v", viewer.UID, err)
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

// ListActive returns active listings, optionally narrowed by category and a
// case-insensitive title/description search.
func (uc *ListingUseCase) ListActive(ctx context.Context, category, search string) ([]*entity.Listing, error) {
	listings, err := uc.listingRepo.ListByStatus(ctx, entity.ListingStatusActive)
	if err != nil {
		return nil, err
	}

	if category == "" && search == "" {
		return listings, nil
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	var filtered []*entity.Listing
	for _, l := range listings {
		if category != "" && l.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(l.Title), needle) &&
			!strings.Contains(strings.ToLower(l.Description), needle) {
			continue
		}
		filtered = append(filtered, l)
	}

	return filtered, nil
}

func (uc *ListingUseCase) ListMine(ctx context.Context, viewer entity.AuthUser) ([]*entity.Listing, error) {
	if viewer.IsZero() {
		return nil, errors.NotAuthenticated("Sign in to view your listings", nil)
	}

	return uc.listingRepo.ListByUser(ctx, viewer.UID)
}

func (uc *ListingUseCase) Update(ctx context.Context, viewer entity.AuthUser, id string, input ListingInput) (*entity.Listing, error) {
	listing, err := uc.ownedListing(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	listing.Title = strings.TrimSpace(input.Title)
	listing.Description = strings.TrimSpace(input.Description)
	listing.Category = input.Category
	listing.Condition = input.Condition
	listing.Price = input.Price
	listing.Images = input.Images
	listing.Location = input.Location

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) ChangeStatus(ctx context.Context, viewer entity.AuthUser, id, status string) error {
	if !entity.ValidListingStatus(status) {
		return errors.Validation("Unknown listing status", nil)
	}

	if _, err := uc.ownedListing(ctx, viewer, id); err != nil {
		return err
	}

	return uc.listingRepo.UpdateStatus(ctx, id, status)
}

// Delete removes the listing and then its stored images. Image deletion is
// best-effort: a blob that is already gone must not fail the delete.
func (uc *ListingUseCase) Delete(ctx context.Context, viewer entity.AuthUser, id string) error {
	listing, err := uc.ownedListing(ctx, viewer, id)
	if err != nil {
		return err
	}

	if err := uc.listingRepo.Delete(ctx, id); err != nil {
		return err
	}

	deleteListingImages(ctx, uc.storage, listing)

	return nil
}

func (uc *ListingUseCase) ownedListing(ctx context.Context, viewer entity.AuthUser, id string) (*entity.Listing, error) {
	if viewer.IsZero() {
		return nil, errors.NotAuthenticated("Sign in first", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.UserID != viewer.UID {
		return nil, errors.AccessDenied("You can only manage your own listings", nil)
	}

	return listing, nil
}

func deleteListingImages(ctx context.Context, storage BlobStorage, listing *entity.Listing) {
	for _, imageURL := range listing.Images {
		if err := storage.Delete(ctx, imageURL); err != nil {
			logger.Warn("Could not delete image %s for listing %s: %v", imageURL, listing.ID, err)
		}
	}
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
