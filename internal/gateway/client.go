package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"simbengride/internal/config"
	"simbengride/internal/utils"
	"simbengride/pkg/logger"
)

// Client is the single adapter in front of the remote ride-matching backend.
// Every operation is one POST against one endpoint with a body of
// {"action": ..., ...params}; the content type is text/plain to sidestep
// cross-origin preflight on the remote side. Heterogeneous success and error
// shapes are normalized here: callers only ever see (payload, error), and the
// error message is always human readable. One round trip per call, no
// retries, no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger

	defaultLat float64
	defaultLng float64

	// Emergency admin access; disabled when either value is empty.
	emergencyEmail    string
	emergencyPassword string
}

func NewClient(cfg *config.GatewayConfig, sec *config.SecurityConfig, loc *config.LocationConfig, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = utils.GatewayTimeout
	}

	return &Client{
		baseURL:           cfg.BaseURL,
		httpClient:        &http.Client{Timeout: timeout},
		logger:            log,
		defaultLat:        loc.DefaultLatitude,
		defaultLng:        loc.DefaultLongitude,
		emergencyEmail:    sec.EmergencyAdminEmail,
		emergencyPassword: sec.EmergencyAdminPassword,
	}
}

// call performs one round trip and unwraps the response. The remote side
// answers either {"error": "..."} on failure, or {"data": <payload>} /
// a bare payload on success; both success shapes are accepted.
func (c *Client) call(ctx context.Context, action string, params map[string]interface{}) (json.RawMessage, error) {
	body := map[string]interface{}{"action": action}
	for k, v := range params {
		body[k] = v
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %v", err)
	}
	req.Header.Set("Content-Type", utils.GatewayContentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.LogGatewayCall(action, false, time.Since(start).Milliseconds())
		return nil, errors.New("network or server error")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.LogGatewayCall(action, false, time.Since(start).Milliseconds())
		return nil, errors.New("network or server error")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.LogGatewayCall(action, false, time.Since(start).Milliseconds())
		return nil, fmt.Errorf("remote returned HTTP %d", resp.StatusCode)
	}

	data, err := unwrap(raw)
	c.logger.LogGatewayCall(action, err == nil, time.Since(start).Milliseconds())
	return data, err
}

func unwrap(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response from remote")
	}

	// Bare array payloads (older server revisions) carry no envelope.
	if trimmed[0] == '[' {
		return json.RawMessage(trimmed), nil
	}

	var envelope struct {
		Error string          `json:"error"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("malformed response: %v", err)
	}

	if envelope.Error != "" {
		return nil, errors.New(envelope.Error)
	}

	if len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
		return envelope.Data, nil
	}

	// Bare object payload.
	return json.RawMessage(trimmed), nil
}

func decode(data json.RawMessage, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("malformed response: %v", err)
	}
	return nil
}
