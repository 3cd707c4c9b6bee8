package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestStatusValid(t *testing.T) {
	t.Parallel()

	require.True(t, RequestPending.Valid())
	require.True(t, RequestApproved.Valid())
	require.True(t, RequestRejected.Valid())
	require.False(t, RequestStatus("pending").Valid())
	require.False(t, RequestStatus("").Valid())
}

func TestRequestStatusTerminal(t *testing.T) {
	t.Parallel()

	require.False(t, RequestPending.Terminal())
	require.True(t, RequestApproved.Terminal())
	require.True(t, RequestRejected.Terminal())
}
