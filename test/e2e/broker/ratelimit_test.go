package broker_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veilhq/veil/pkg/brokersdk"
)

// TestLoginRateLimit hammers the login endpoint and expects the strict
// limiter to step in after the burst is spent.
func TestLoginRateLimit(t *testing.T) {
	baseURL, _ := setupBrokerContainer(t)
	client := brokersdk.NewSDKClient(baseURL)

	// The strict profile allows a burst of 5 per IP. The first attempts fail
	// on credentials, not on rate.
	for i := 0; i < 5; i++ {
		_, err := client.Login(t.Context(), "nobody@example.com", "wrong")
		var apiErr *brokersdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode,
			"attempt %d should fail on credentials", i+1)
	}

	_, err := client.Login(t.Context(), "nobody@example.com", "wrong")
	var apiErr *brokersdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}
