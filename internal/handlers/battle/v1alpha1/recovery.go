package v1alpha1

import (
	"context"
	"log/slog"
	"runtime/debug"

	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RecoverPanic logs a handler panic and answers the call with Internal.
// A battle that fails its consistency check panics, and clients see it as
// an internal error rather than Unknown.
func RecoverPanic(logger *slog.Logger) grpc_recovery.RecoveryHandlerFuncContext {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, p any) error {
		logger.ErrorContext(ctx, "Recovered from panic", "panic", p, "stack", string(debug.Stack()))
		return status.Errorf(codes.Internal, "internal error: %v", p)
	}
}
