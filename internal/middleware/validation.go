// internal/middleware/validation.go
package middleware

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	taskv1 "github.com/labflow/labflow/api/proto/task/v1/generated"
	"github.com/labflow/labflow/internal/config"
)

// ValidationInterceptor rejects malformed task requests before they
// reach the service: missing or over-long titles and oversized
// descriptions. Enum canonicalization stays in the service layer.
type ValidationInterceptor struct {
	config config.ValidationConfig
}

// NewValidationInterceptor creates a new validation interceptor
func NewValidationInterceptor(cfg config.ValidationConfig) *ValidationInterceptor {
	return &ValidationInterceptor{
		config: cfg,
	}
}

// Unary returns a unary server interceptor for request validation
func (v *ValidationInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if err := v.validateRequest(req); err != nil {
			return nil, err
		}

		return handler(ctx, req)
	}
}

// validateRequest validates different request types
func (v *ValidationInterceptor) validateRequest(req interface{}) error {
	switch r := req.(type) {
	case *taskv1.CreateTaskRequest:
		return v.validateBody(r.Title, r.Description)
	case *taskv1.UpdateTaskRequest:
		return v.validateBody(r.Title, r.Description)
	default:
		return nil
	}
}

func (v *ValidationInterceptor) validateBody(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return status.Error(codes.InvalidArgument, "title is required")
	}

	if len([]rune(strings.TrimSpace(title))) > v.config.MaxTitleLength {
		return status.Error(codes.InvalidArgument,
			fmt.Sprintf("title must be %d characters or less", v.config.MaxTitleLength))
	}

	if len([]rune(description)) > v.config.MaxDescriptionLength {
		return status.Error(codes.InvalidArgument,
			fmt.Sprintf("description must be %d characters or less", v.config.MaxDescriptionLength))
	}

	return nil
}
