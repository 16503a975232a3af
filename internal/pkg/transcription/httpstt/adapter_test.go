package httpstt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/transcription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, err := New("", 100, time.Second)
	require.Nil(t, err)
	assert.False(t, a.IsAvailable())
	a, err = New("http://stt:8000/transcribe", 100, time.Second)
	require.Nil(t, err)
	assert.True(t, a.IsAvailable())
	assert.Equal(t, "http_stt", a.Name())
	assert.Equal(t, 100, a.MaxAudioLength())
	assert.Equal(t, transcription.Synchronous, a.Type())
	_, err = New("http://", 100, time.Second)
	assert.NotNil(t, err)
}

func writeFile(t *testing.T) string {
	t.Helper()
	res := filepath.Join(t.TempDir(), "a.mp3")
	require.Nil(t, os.WriteFile(res, []byte("audio"), 0644))
	return res
}

func newTestAdapter(t *testing.T, code int, body string) *Adapter {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodPost, req.Method)
		f, h, err := req.FormFile("file")
		if assert.Nil(t, err) {
			assert.Equal(t, "a.mp3", h.Filename)
			b, _ := io.ReadAll(f)
			assert.Equal(t, "audio", string(b))
		}
		rw.WriteHeader(code)
		rw.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	a, err := New(server.URL, 100, time.Second)
	require.Nil(t, err)
	a.httpclient = server.Client()
	return a
}

func TestStart(t *testing.T) {
	a := newTestAdapter(t, 200, `{"segments":[{"speaker":"A","text":"Hello","start":0.5,"end":1},{"speaker":"B","text":"Hi","start":1,"end":2}]}`)

	res, err := a.Start(context.Background(), &transcription.Input{FilePath: writeFile(t)})

	require.Nil(t, err)
	assert.Equal(t, "http_stt", res.TranscriptionService)
	assert.Equal(t, messages.SynchronousJobName, res.JobName)
	assert.Equal(t, []api.DialogueEntry{{Speaker: "A", Text: "Hello", StartTime: 0.5, EndTime: 1},
		{Speaker: "B", Text: "Hi", StartTime: 1, EndTime: 2}}, res.Transcript)
}

func TestStart_Fail(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
	}{
		{name: "status", code: 500, body: "olia"},
		{name: "json", code: 200, body: "olia"},
		{name: "empty", code: 200, body: `{"segments":[]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAdapter(t, tc.code, tc.body)
			_, err := a.Start(context.Background(), &transcription.Input{FilePath: writeFile(t)})
			assert.NotNil(t, err)
		})
	}
}

func TestStart_NoFile(t *testing.T) {
	a, _ := New("http://stt:8000", 100, time.Second)
	_, err := a.Start(context.Background(), &transcription.Input{})
	assert.NotNil(t, err)
	_, err = a.Start(context.Background(), &transcription.Input{FilePath: filepath.Join(t.TempDir(), "none.mp3")})
	assert.NotNil(t, err)
}

func TestCheck(t *testing.T) {
	a, _ := New("", 100, time.Second)
	d := &messages.TranscriptionJobData{JobName: "synchronous"}
	res, err := a.Check(context.Background(), d)
	assert.Nil(t, err)
	assert.Equal(t, d, res)
}
