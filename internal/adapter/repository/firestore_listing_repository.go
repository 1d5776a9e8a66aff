package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}

	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return mapStoreError("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, mapStoreError("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}
	listing.ID = doc.Ref.ID

	return &listing, nil
}

func (r *firestoreListingRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Listing, error) {
	query := r.client.Collection("listings").Where("status", "==", status)
	return r.collect(ctx, query.Documents(ctx))
}

func (r *firestoreListingRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Listing, error) {
	query := r.client.Collection("listings").Where("userId", "==", userID)
	return r.collect(ctx, query.Documents(ctx))
}

func (r *firestoreListingRepository) ListAll(ctx context.Context) ([]*entity.Listing, error) {
	return r.collect(ctx, r.client.Collection("listings").Documents(ctx))
}

func (r *firestoreListingRepository) collect(ctx context.Context, iter *firestore.DocumentIterator) ([]*entity.Listing, error) {
	docs, err := iter.GetAll()
	if err != nil {
		return nil, mapStoreError("Failed to fetch listings", err)
	}

	var listings []*entity.Listing
	for _, doc := range docs {
		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			logger.Warn("Skipping unparseable listing %s: %v", doc.Ref.ID, err)
			continue
		}
		listing.ID = doc.Ref.ID
		listings = append(listings, &listing)
	}

	// Newest first; sorting in memory keeps the queries index-free.
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})

	return listings, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return mapStoreError("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) UpdateStatus(ctx context.Context, id, listingStatus string) error {
	_, err := r.client.Collection("listings").Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: listingStatus},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Listing", err)
		}
		return mapStoreError("Failed to update listing status", err)
	}

	return nil
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("listings").Doc(id).Delete(ctx)
	if err != nil {
		return mapStoreError("Failed to delete listing", err)
	}

	return nil
}
