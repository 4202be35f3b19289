package errors

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToGRPCError converts an error to a gRPC status error. Errors without a
// code become Internal unless they carry a context error.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return status.Error(customErr.Code.GRPCCode(), customErr.Message)
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	code := GetCode(err)
	if code == CodeInternal {
		return status.Error(codes.Internal, err.Error())
	}
	return status.Error(code.GRPCCode(), err.Error())
}

// FromGRPCError converts a gRPC error back into an Error, for clients
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	return &Error{
		Code:    codeFromGRPC(st.Code()),
		Message: st.Message(),
	}
}
