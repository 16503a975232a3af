package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type agesStore struct {
	ages map[string]time.Duration
}

func (s *agesStore) Touch(ctx context.Context, id string) error { return nil }

func (s *agesStore) Ages(ctx context.Context) (map[string]time.Duration, error) {
	return s.ages, nil
}

func testCode(t *testing.T, data *WebData, path string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	return resp.Code
}

func TestReady(t *testing.T) {
	st := &agesStore{ages: map[string]time.Duration{"worker_llm-0": time.Second}}
	assert.Equal(t, http.StatusOK, testCode(t, &WebData{Store: st, Timeout: time.Minute}, "/ready"))
}

func TestReady_Stale(t *testing.T) {
	st := &agesStore{ages: map[string]time.Duration{"worker_llm-0": time.Hour}}
	assert.Equal(t, http.StatusServiceUnavailable, testCode(t, &WebData{Store: st, Timeout: time.Minute}, "/ready"))
}

func TestReady_NoWorkers(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, testCode(t, &WebData{Store: &agesStore{}, Timeout: time.Minute}, "/ready"))
}

func TestLive(t *testing.T) {
	assert.Equal(t, http.StatusOK, testCode(t, &WebData{}, "/live"))
}

func TestMetrics(t *testing.T) {
	assert.Equal(t, http.StatusOK, testCode(t, &WebData{}, "/metrics"))
}
