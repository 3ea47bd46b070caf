package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	require.True(t, FromContext(ctx).IsAnonymous())

	u := User{ID: 7, Username: "alice"}
	require.Equal(t, u, FromContext(WithUser(ctx, u)))
	require.False(t, u.IsAnonymous())
	require.True(t, Anonymous().IsAnonymous())
}
