package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return mapStoreError("Failed to create user", err)
	}

	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, mapStoreError("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	docs, err := r.client.Collection("users").Documents(ctx).GetAll()
	if err != nil {
		return nil, mapStoreError("Failed to list users", err)
	}

	var users []*entity.User
	for _, doc := range docs {
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			logger.Warn("Skipping unparseable user %s: %v", doc.Ref.ID, err)
			continue
		}
		user.ID = doc.Ref.ID
		users = append(users, &user)
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	return users, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return mapStoreError("Failed to update user", err)
	}

	return nil
}

func (r *firestoreUserRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	_, err := r.client.Collection("users").Doc(id).Update(ctx, []firestore.Update{
		{Path: "isAdmin", Value: isAdmin},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", err)
		}
		return mapStoreError("Failed to update admin flag", err)
	}

	return nil
}
