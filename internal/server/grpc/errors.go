package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rzbill/coinlog/internal/aggregate"
	"github.com/rzbill/coinlog/internal/eventlog"
	"github.com/rzbill/coinlog/internal/request"
)

// toStatus maps service errors onto gRPC codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, request.ErrValidation), errors.Is(err, eventlog.ErrInvalidKey):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, eventlog.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, aggregate.ErrOverflow):
		return status.Error(codes.Internal, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
