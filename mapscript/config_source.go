package mapscript

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HTTPConfigSource reads the client id from the public client-id endpoint
type HTTPConfigSource struct {
	BaseURL string
	Client  *http.Client
}

func (s *HTTPConfigSource) ClientID(ctx context.Context) (string, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	endpoint := strings.TrimRight(s.BaseURL, "/") + "/api/naver/client-id"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("client id endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		ClientID string `json:"clientId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode client id: %w", err)
	}
	return body.ClientID, nil
}
