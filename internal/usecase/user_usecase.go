package usecase

import (
	"context"
	"io"
	"strings"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

type UserUseCase struct {
	userRepo       repository.UserRepository
	identity       IdentityClient
	storage        BlobStorage
	universityName string
}

func NewUserUseCase(userRepo repository.UserRepository, identity IdentityClient, storage BlobStorage, universityName string) *UserUseCase {
	return &UserUseCase{
		userRepo:       userRepo,
		identity:       identity,
		storage:        storage,
		universityName: universityName,
	}
}

// EnsureUser loads the user document for an authenticated caller, creating
// it on first sight (accounts provisioned directly at the identity provider,
// e.g. via Google sign-in, have no document yet).
func (uc *UserUseCase) EnsureUser(ctx context.Context, au entity.AuthUser) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, au.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	user = &entity.User{
		ID:          au.UID,
		Email:       au.Email,
		DisplayName: au.DisplayName,
		PhotoURL:    au.PhotoURL,
		University:  uc.universityName,
		IsAdmin:     false,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("Created user document for %s on first authenticated request", au.UID)

	return user, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, uid string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, uid)
}

// UpdateDisplayName changes the name at the identity provider and in the
// user document. Existing listing and thread snapshots keep the old name.
func (uc *UserUseCase) UpdateDisplayName(ctx context.Context, viewer entity.AuthUser, displayName string) (*entity.User, error) {
	if viewer.IsZero() {
		return nil, errors.NotAuthenticated("Sign in to edit your profile", nil)
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, errors.Validation("Display name must not be empty", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, viewer.UID)
	if err != nil {
		return nil, err
	}

	if err := uc.identity.UpdateProfile(ctx, viewer.UID, displayName, ""); err != nil {
		logger.Error("UpdateDisplayName: identity provider update failed for %s: %v", viewer.UID, err)
		return nil, errors.Internal("Failed to update profile", err)
	}

	user.DisplayName = displayName
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateAvatar uploads a new photo and points both the identity provider and
// the user document at it.
func (uc *UserUseCase) UpdateAvatar(ctx context.Context, viewer entity.AuthUser, file io.Reader, contentType string) (*entity.User, error) {
	if viewer.IsZero() {
		return nil, errors.NotAuthenticated("Sign in to edit your profile", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, viewer.UID)
	if err != nil {
		return nil, err
	}

	photoURL, err := uc.storage.Upload(ctx, file, contentType, "avatars/"+viewer.UID)
	if err != nil {
		logger.Error("UpdateAvatar: upload failed for %s: %v", viewer.UID, err)
		return nil, errors.Internal("Failed to upload photo", err)
	}

	if err := uc.identity.UpdateProfile(ctx, viewer.UID, "", photoURL); err != nil {
		logger.Error("UpdateAvatar: identity provider update failed for %s: %v", viewer.UID, err)
		return nil, errors.Internal("Failed to update profile", err)
	}

	user.PhotoURL = photoURL
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
