package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kendall-kelly/clinic-landing-api/config"
)

// ProviderResponse is a map provider reply, passed to the client untouched
type ProviderResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// NaverService talks to the Naver Cloud map APIs
type NaverService struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
}

// NewNaverService creates a new Naver map service instance
func NewNaverService(cfg *config.Config) *NaverService {
	return &NaverService{
		clientID:     cfg.NaverClientID,
		clientSecret: cfg.NaverClientSecret,
		baseURL:      strings.TrimRight(cfg.NaverAPIBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ClientID returns the public client id handed to the browser map script
func (s *NaverService) ClientID() string {
	return s.clientID
}

// ReverseGeocode resolves "lng,lat" coordinates to road addresses
func (s *NaverService) ReverseGeocode(ctx context.Context, coords string) (*ProviderResponse, error) {
	query := url.Values{}
	query.Set("coords", coords)
	query.Set("output", "json")
	query.Set("orders", "roadaddr")
	return s.get(ctx, "/map-reversegeocode/v2/gc", query)
}

// Geocode resolves a free-text address query
func (s *NaverService) Geocode(ctx context.Context, address string) (*ProviderResponse, error) {
	query := url.Values{}
	query.Set("query", address)
	return s.get(ctx, "/map-geocode/v2/geocode", query)
}

func (s *NaverService) get(ctx context.Context, path string, query url.Values) (*ProviderResponse, error) {
	endpoint := fmt.Sprintf("%s%s?%s", s.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", s.clientID)
	req.Header.Set("X-NCP-APIGW-API-KEY", s.clientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call map provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read map provider response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return &ProviderResponse{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}
