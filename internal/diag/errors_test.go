package diag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsCancelledUnwraps(t *testing.T) {
	err := NewCancelledError(context.Canceled)
	require.True(t, IsCancelled(err))
	require.False(t, IsHostFailure(err))
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsHostFailureUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := NewHostFailureError(inner)
	require.True(t, IsHostFailure(err))
	require.False(t, IsCancelled(err))
	require.ErrorIs(t, err, inner)
}

func TestPreemptedErrorStaysInternal(t *testing.T) {
	err := newPreemptedError(context.Canceled)
	require.True(t, isPreempted(err))
	require.False(t, IsCancelled(err))
	require.False(t, IsHostFailure(err))
}

func TestContractViolationAndInvalidRequestMessages(t *testing.T) {
	cv := NewContractViolationError("missing reverse lookup")
	require.Contains(t, cv.Error(), "missing reverse lookup")

	ir := NewInvalidRequestError("span without document")
	require.Contains(t, ir.Error(), "span without document")
}
