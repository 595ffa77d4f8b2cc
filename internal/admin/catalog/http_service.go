package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"finitefield.org/catalog-admin/internal/admin/productform"
)

// HTTPClient matches the subset of http.Client used by the backend clients.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPService implements Service backed by the catalog REST API.
type HTTPService struct {
	base   *url.URL
	client HTTPClient
}

// NewHTTPService constructs a Service that talks to the catalog API.
func NewHTTPService(baseURL string, client HTTPClient) (*HTTPService, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPService{base: base, client: client}, nil
}

// Characteristics fetches the existing sub-forms of a product.
func (s *HTTPService) Characteristics(ctx context.Context, token, productID string) (productform.Seed, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrProductNotFound
	}
	endpoint := path.Join("/products", url.PathEscape(productID), "characteristics")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolve(s.base, endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var payload map[string][]map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: decode characteristics: %w", err)
	}

	seed := make(productform.Seed, len(payload))
	for raw, records := range payload {
		t, err := productform.ParseFormType(raw)
		if err != nil {
			continue
		}
		seed[t] = records
	}
	return seed, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("catalog: base URL is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse base URL: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	return parsed, nil
}

func resolve(base *url.URL, endpoint string) string {
	if endpoint == "" {
		return base.String()
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	ref := &url.URL{Path: strings.TrimPrefix(endpoint, "/")}
	return base.ResolveReference(ref).String()
}

func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			return fmt.Errorf("catalog: backend error (%s): %s", strings.TrimSpace(payload.Code), payload.Message)
		}
		return fmt.Errorf("catalog: backend error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("catalog: backend error (%d): %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
