package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"unimarket/internal/domain/entity"
)

// AuthClient wraps the Firebase Auth admin client.
type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(client *auth.Client) *AuthClient {
	return &AuthClient{
		client: client,
	}
}

func (f *AuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}

	return user.UID, nil
}

func (f *AuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}

// AuthUserFromToken verifies an ID token and builds the caller identity from
// its claims. Tokens minted by federated providers carry name and picture
// claims; email/password tokens may not.
func (f *AuthClient) AuthUserFromToken(ctx context.Context, idToken string) (entity.AuthUser, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return entity.AuthUser{}, err
	}

	return entity.AuthUser{
		UID:         token.UID,
		Email:       claimString(token.Claims, "email"),
		DisplayName: claimString(token.Claims, "name"),
		PhotoURL:    claimString(token.Claims, "picture"),
	}, nil
}

func (f *AuthClient) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error {
	params := &auth.UserToUpdate{}
	if displayName != "" {
		params = params.DisplayName(displayName)
	}
	if photoURL != "" {
		params = params.PhotoURL(photoURL)
	}

	_, err := f.client.UpdateUser(ctx, uid, params)
	return err
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
