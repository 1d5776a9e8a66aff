package repository

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unimarket/pkg/errors"
)

// mapStoreError translates Firestore transport failures into the application
// error taxonomy. Transient backend conditions surface as STORE_UNAVAILABLE
// and are reported once, never retried here.
func mapStoreError(message string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return errors.StoreUnavailable(message, err)
	default:
		return errors.Internal(message, err)
	}
}
