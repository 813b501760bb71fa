package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/adammck/maint/pkg/acl"
	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/maintenance"
	"github.com/adammck/maint/pkg/roster"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DeprecatedError is returned by legacy attribute writes while they are
// forbidden. Nothing is changed.
type DeprecatedError struct {
	Attribute string
}

func (e *DeprecatedError) Error() string {
	return fmt.Sprintf("setting %q is deprecated; use add_maintenance and remove_maintenance instead", e.Attribute)
}

// Code returns the gRPC code which err should be reported to callers as.
func Code(err error) codes.Code {
	var (
		ade *acl.AccessDeniedError
		de  *DeprecatedError
		iae *api.InvalidArgumentError
		nnf roster.ErrNodeNotFound
		hnf roster.ErrHostNotFound
		hne roster.ErrHostNotEmpty
	)

	switch {
	case err == nil:
		return codes.OK
	case errors.As(err, &ade):
		return codes.PermissionDenied
	case errors.As(err, &de):
		return codes.FailedPrecondition
	case errors.As(err, &hne):
		return codes.FailedPrecondition
	case errors.As(err, &iae):
		return codes.InvalidArgument
	case errors.As(err, &nnf), errors.As(err, &hnf), errors.Is(err, maintenance.ErrDestroyed):
		return codes.NotFound
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}

	return codes.Internal
}

// toStatus converts an error from the tracker into a gRPC status error.
func toStatus(err error) error {
	if err == nil {
		return nil
	}

	return status.Error(Code(err), err.Error())
}
