package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	svcErr "github.com/oggyb/eventswipe/internal/errors"
)

func TestMap(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"gorm not found", gorm.ErrRecordNotFound, codes.NotFound},
		{"wrapped not found", svcErr.NotFound("event e1"), codes.NotFound},
		{"validation", svcErr.Validation("capacity must be >= 2"), codes.InvalidArgument},
		{"permission", fmt.Errorf("delete: %w", svcErr.ErrPermissionDenied), codes.PermissionDenied},
		{"full", fmt.Errorf("join e1: %w", svcErr.ErrEventFull), codes.FailedPrecondition},
		{"transition", svcErr.ErrInvalidTransition, codes.Aborted},
		{"interrupted", svcErr.ErrFeedInterrupted, codes.Unavailable},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"other", fmt.Errorf("boom"), codes.Internal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, ok := status.FromError(svcErr.Map(tc.err))
			assert.True(t, ok)
			assert.Equal(t, tc.want, st.Code())
		})
	}
}

func TestMap_PassesStatusThrough(t *testing.T) {
	err := svcErr.InvalidArgument("bad id")
	assert.Equal(t, err, svcErr.Map(err))
	assert.Nil(t, svcErr.Map(nil))
}
