package client

// http_client.go = talks to the movierater API server.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"movierater/internal/detect"
	"movierater/internal/microservices/http-api/dto"
	"movierater/internal/microservices/http-api/models"
	"movierater/internal/rating"
	"movierater/internal/trending"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Field, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tmdbKey    string
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SetTMDBKey sends key with trending requests.
func (c *HTTPClient) SetTMDBKey(key string) {
	c.tmdbKey = key
}

// BaseURL returns the server address the client talks to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tmdbKey != "" {
		req.Header.Set("X-TMDB-Key", c.tmdbKey)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := &APIError{StatusCode: response.StatusCode, Message: response.Status}
		var payload struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		if json.NewDecoder(response.Body).Decode(&payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Field = payload.Field
		}
		return apiErr
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(out)
}

// Ping checks the server is reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/check-conn", nil, nil)
}

func (c *HTTPClient) Detect(ctx context.Context, pageURL string) (*detect.Result, error) {
	var result detect.Result
	if err := c.do(ctx, http.MethodPost, "/api/detect", dto.DetectRequest{URL: pageURL}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) BatchDetect(ctx context.Context, urls []string) ([]detect.BatchResult, error) {
	var resp dto.BatchDetectResponse
	if err := c.do(ctx, http.MethodPost, "/api/detect/batch", dto.BatchDetectRequest{URLs: urls}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *HTTPClient) CreateRating(ctx context.Context, req dto.CreateRatingRequest) (*models.RatingRecord, error) {
	var record models.RatingRecord
	if err := c.do(ctx, http.MethodPost, "/api/ratings", req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) ListRatings(ctx context.Context, params dto.RatingQueryParams) (*rating.Result, error) {
	q := url.Values{}
	for key, value := range map[string]string{
		"search": params.Search, "score": params.Score, "from": params.From, "to": params.To, "sort": params.Sort,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	path := "/api/ratings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result rating.Result
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetRating(ctx context.Context, id int64) (*dto.RatingDetailResponse, error) {
	var detail dto.RatingDetailResponse
	if err := c.do(ctx, http.MethodGet, "/api/ratings/"+strconv.FormatInt(id, 10), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *HTTPClient) DeleteRating(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/ratings/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *HTTPClient) GetCustomFields(ctx context.Context) (*dto.CustomFieldsResponse, error) {
	var resp dto.CustomFieldsResponse
	if err := c.do(ctx, http.MethodGet, "/api/settings/custom-fields", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) SaveCustomFields(ctx context.Context, fields []models.CustomFieldDefinition) (*dto.CustomFieldsResponse, error) {
	var resp dto.CustomFieldsResponse
	if err := c.do(ctx, http.MethodPut, "/api/settings/custom-fields", dto.CustomFieldsRequest{Fields: fields}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListCategories(ctx context.Context) (*dto.CategoryListResponse, error) {
	var resp dto.CategoryListResponse
	if err := c.do(ctx, http.MethodGet, "/api/settings/categories/list", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetCategorySettings(ctx context.Context) (models.ToggleSettings, error) {
	settings := models.ToggleSettings{}
	if err := c.do(ctx, http.MethodGet, "/api/settings/categories", nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (c *HTTPClient) SaveCategorySettings(ctx context.Context, settings models.ToggleSettings) (models.ToggleSettings, error) {
	saved := models.ToggleSettings{}
	if err := c.do(ctx, http.MethodPut, "/api/settings/categories", settings, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (c *HTTPClient) Trending(ctx context.Context) ([]trending.Movie, error) {
	var resp struct {
		Movies []trending.Movie `json:"movies"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/trending", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Movies, nil
}
