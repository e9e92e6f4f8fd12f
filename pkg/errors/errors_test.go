package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := errors.New("signature mismatch")
	err := Wrap(CodeInvalidToken, "token validation failed", cause)

	require.True(t, IsCode(err, CodeInvalidToken))
	require.False(t, IsCode(err, CodeInvalidRequest))
	require.ErrorIs(t, err, cause)
	require.Equal(t, "token validation failed: signature mismatch", err.Error())

	wrapped := fmt.Errorf("filter: %w", err)
	require.True(t, IsCode(wrapped, CodeInvalidToken))
	require.Equal(t, CodeInvalidToken, CodeOf(wrapped))
}

func TestCodeOfForeignError(t *testing.T) {
	require.Empty(t, CodeOf(errors.New("boom")))
	require.Equal(t, "token missing", Wrap(CodeInvalidToken, "token missing", nil).Error())
}
