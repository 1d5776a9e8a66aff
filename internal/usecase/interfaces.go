package usecase

import (
	"context"
	"io"
)

// IdentityClient is the slice of the identity provider the use cases need.
type IdentityClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error
}

// BlobStorage stores listing images and avatars. Delete is best-effort at
// call sites: a missing object must not fail the surrounding operation.
type BlobStorage interface {
	Upload(ctx context.Context, file io.Reader, contentType, folder string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}
