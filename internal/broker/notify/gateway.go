package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veilhq/veil/internal/broker/domain"
)

const defaultTimeout = 15 * time.Second

// GatewayClient posts codes to an external notification gateway that fans
// out to SMS and email providers. The gateway replies with a delivery
// attempt acknowledgement only.
type GatewayClient struct {
	APIKey     string
	BaseURL    string
	Sender     string // display sender for SMS / From address for email
	HTTPClient *http.Client
}

// NewGatewayClient returns a client for the given gateway endpoint.
func NewGatewayClient(apiKey, baseURL, sender string) *GatewayClient {
	return &GatewayClient{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Sender:     sender,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Send posts the code to the gateway. The destination is the raw contact
// value for the channel (address or E.164 number). Does not log the code.
func (c *GatewayClient) Send(ctx context.Context, destination string, channel domain.Channel, code string) error {
	if c.APIKey == "" {
		return fmt.Errorf("notify: gateway API key not configured")
	}

	body := map[string]string{
		"channel":     string(channel),
		"destination": destination,
		"sender":      c.Sender,
		"code":        code,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notify: gateway request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
