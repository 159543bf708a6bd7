package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"movierater/internal/detect"
	"movierater/internal/microservices/http-api/dto"
	"movierater/internal/microservices/http-api/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPageLoader struct {
	mock.Mock
}

func (m *MockPageLoader) Fetch(ctx context.Context, rawURL string) (*detect.Page, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*detect.Page), args.Error(1)
}

const netflixPage = `<html><head><title>Netflix</title></head><body>
<div class="video-title">Stranger Things</div>
<span class="genre">Drama</span>
</body></html>`

func setupDetectRouter(loader detect.PageLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	d := detect.NewDetector(nil, detect.Options{GenreDetection: true})
	handler.NewDetectHandler(d, loader, 2, nil).RegisterRoutes(r.Group("/api"))
	return r
}

func TestDetectHandler_InlineHTML(t *testing.T) {
	loader := new(MockPageLoader)
	r := setupDetectRouter(loader)

	body, _ := json.Marshal(dto.DetectRequest{URL: "https://www.netflix.com/watch/1", HTML: netflixPage})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/detect", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got detect.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Stranger Things", got.Title)
	assert.Equal(t, "Drama", got.Genre)
	loader.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestDetectHandler_Fetched(t *testing.T) {
	loader := new(MockPageLoader)
	r := setupDetectRouter(loader)

	page, err := detect.NewPageFromString("https://www.netflix.com/watch/1", netflixPage)
	require.NoError(t, err)
	loader.On("Fetch", mock.Anything, "https://www.netflix.com/watch/1").Return(page, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/detect", bytes.NewBufferString(`{"url":"https://www.netflix.com/watch/1"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stranger Things")
	loader.AssertExpectations(t)
}

func TestDetectHandler_FetchFailure(t *testing.T) {
	loader := new(MockPageLoader)
	r := setupDetectRouter(loader)

	loader.On("Fetch", mock.Anything, "https://down.example").
		Return(nil, fmt.Errorf("%w: status 503", detect.ErrFetchFailed))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/detect", bytes.NewBufferString(`{"url":"https://down.example"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestDetectHandler_MissingURL(t *testing.T) {
	r := setupDetectRouter(new(MockPageLoader))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/detect", bytes.NewBufferString(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetectHandler_Batch(t *testing.T) {
	loader := new(MockPageLoader)
	r := setupDetectRouter(loader)

	page, err := detect.NewPageFromString("https://www.netflix.com/watch/1", netflixPage)
	require.NoError(t, err)
	loader.On("Fetch", mock.Anything, "https://www.netflix.com/watch/1").Return(page, nil)
	loader.On("Fetch", mock.Anything, "https://down.example").
		Return(nil, fmt.Errorf("%w: status 503", detect.ErrFetchFailed))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/detect/batch",
		bytes.NewBufferString(`{"urls":["https://www.netflix.com/watch/1","https://down.example"]}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.BatchDetectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Results, 2)
	assert.Equal(t, "Stranger Things", got.Results[0].Title)
	assert.Empty(t, got.Results[0].Error)
	assert.Equal(t, "https://down.example", got.Results[1].URL)
	assert.NotEmpty(t, got.Results[1].Error)
}
