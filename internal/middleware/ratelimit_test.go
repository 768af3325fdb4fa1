package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterCapsPerKey(t *testing.T) {
	l := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("10.0.0.1"))
	}
	require.False(t, l.Allow("10.0.0.1"))

	// Other clients keep their own budget.
	require.True(t, l.Allow("10.0.0.2"))
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	l := NewRateLimiter(1, 20*time.Millisecond)

	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))

	time.Sleep(30 * time.Millisecond)
	require.True(t, l.Allow("10.0.0.1"))
}
