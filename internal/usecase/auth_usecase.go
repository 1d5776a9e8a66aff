package usecase

import (
	"context"
	"fmt"
	"strings"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

// AuthUseCase handles registration and the university email gate.
type AuthUseCase struct {
	userRepo       repository.UserRepository
	identity       IdentityClient
	allowedDomain  string
	universityName string
}

func NewAuthUseCase(userRepo repository.UserRepository, identity IdentityClient, allowedDomain, universityName string) *AuthUseCase {
	return &AuthUseCase{
		userRepo:       userRepo,
		identity:       identity,
		allowedDomain:  allowedDomain,
		universityName: universityName,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// ValidUniversityEmail reports whether the address belongs to the configured
// university domain.
func (uc *AuthUseCase) ValidUniversityEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), "@"+uc.allowedDomain)
}

// Register creates the identity-provider account and the user document.
// Only university addresses are accepted.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	if !uc.ValidUniversityEmail(input.Email) {
		return nil, errors.Validation(fmt.Sprintf("Only @%s email addresses are allowed", uc.allowedDomain), nil)
	}
	if len(input.Password) < 6 {
		return nil, errors.Validation("Password must be at least 6 characters", nil)
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, errors.Validation("Display name must not be empty", nil)
	}

	uid, err := uc.identity.CreateUser(ctx, input.Email, input.Password, input.DisplayName)
	if err != nil {
		logger.Error("Register: identity provider rejected %s: %v", input.Email, err)
		return nil, errors.BadRequest("Could not create account", err)
	}

	user := &entity.User{
		ID:          uid,
		Email:       input.Email,
		DisplayName: strings.TrimSpace(input.DisplayName),
		University:  uc.universityName,
		IsAdmin:     false,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
