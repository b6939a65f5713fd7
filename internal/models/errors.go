package models

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrProductNotFound = status.Errorf(codes.NotFound, "product not found")
	ErrInvalidFilters  = status.Errorf(codes.InvalidArgument, "invalid product filters")
	ErrInvalidInput    = status.Errorf(codes.InvalidArgument, "invalid input")
	ErrUnauthenticated = status.Errorf(codes.Unauthenticated, "not authenticated")
)

// RemoteError is a non-2xx answer from the marketplace API, with the message the server sent.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.StatusCode, e.Message)
}
