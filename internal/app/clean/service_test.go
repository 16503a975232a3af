package clean

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type cleanerMock struct {
	mock.Mock
}

func (m *cleanerMock) Clean(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

func newTestData() (*ServiceData, *cleanerMock) {
	cm := &cleanerMock{}
	cm.On("Clean", mock.Anything).Return(nil)
	data := &ServiceData{}
	data.health = healthcheck.NewHandler()
	data.cleaner = cm
	initMetrics(data)
	return data, cm
}

func serve(data *ServiceData, method, path string) int {
	req := httptest.NewRequest(method, path, nil)
	resp := httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	return resp.Code
}

func TestWrongPath(t *testing.T) {
	data, _ := newTestData()
	assert.Equal(t, 404, serve(data, "DELETE", "/olia/id"))
}

func TestWrongMethod(t *testing.T) {
	data, _ := newTestData()
	assert.Equal(t, 405, serve(data, "POST", "/transcription/id"))
}

func TestDelete(t *testing.T) {
	data, cm := newTestData()
	assert.Equal(t, 200, serve(data, "DELETE", "/transcription/id"))
	cm.AssertCalled(t, "Clean", "id")
}

func TestNoData(t *testing.T) {
	data, _ := newTestData()
	assert.Equal(t, 404, serve(data, "DELETE", "/transcription/"))
}

func TestCleanerFails(t *testing.T) {
	data := &ServiceData{health: healthcheck.NewHandler()}
	cm := &cleanerMock{}
	cm.On("Clean", mock.Anything).Return(errors.New("olia"))
	data.cleaner = cm
	initMetrics(data)
	assert.Equal(t, 500, serve(data, "DELETE", "/transcription/id"))
}

func TestLive(t *testing.T) {
	data, _ := newTestData()
	assert.Equal(t, 200, serve(data, "GET", "/live"))
}

func TestLive503(t *testing.T) {
	data, _ := newTestData()
	data.health.AddLivenessCheck("test", func() error { return errors.New("test") })
	assert.Equal(t, 503, serve(data, "GET", "/live"))
}

func TestReady(t *testing.T) {
	data, _ := newTestData()
	assert.Equal(t, 200, serve(data, "GET", "/ready"))
}

func TestMetrics(t *testing.T) {
	data, _ := newTestData()
	assert.Equal(t, 200, serve(data, "GET", "/metrics"))
}

func TestAddMetric(t *testing.T) {
	data, _ := newTestData()
	serve(data, "DELETE", "/transcription/id")
	assert.Equal(t, 1, testutil.CollectAndCount(data.metrics.responseDur))
}
