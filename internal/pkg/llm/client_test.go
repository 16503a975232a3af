package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/airenas/minutego/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestServer(t *testing.T, rCode int, body string, check func(*http.Request)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		if check != nil {
			check(req)
		}
		rw.WriteHeader(rCode)
		rw.Write([]byte(body))
	}))
}

const answer = `{"choices":[{"message":{"role":"assistant","content":"olia"}}]}`

func TestNewClient(t *testing.T) {
	c, err := NewClient(config.LLMModelSettings{Provider: "openai", URL: "http://llm/v1/", Key: "k", Model: "m"}, time.Second)
	require.Nil(t, err)
	assert.Equal(t, "http://llm/v1/chat/completions", c.url)
	assert.Equal(t, "Bearer k", c.headerVal)

	c, err = NewClient(config.LLMModelSettings{Provider: "azure", URL: "http://azure", Key: "k", Model: "gpt",
		APIVersion: "2024-01"}, time.Second)
	require.Nil(t, err)
	assert.Equal(t, "http://azure/openai/deployments/gpt/chat/completions?api-version=2024-01", c.url)
	assert.Equal(t, "api-key", c.headerKey)
}

func TestNewClient_Fail(t *testing.T) {
	_, err := NewClient(config.LLMModelSettings{Provider: "openai", URL: ""}, time.Second)
	assert.NotNil(t, err)
	_, err = NewClient(config.LLMModelSettings{Provider: "azure", URL: "http://azure"}, time.Second)
	assert.NotNil(t, err)
	_, err = NewClient(config.LLMModelSettings{Provider: "olia", URL: "http://llm"}, time.Second)
	assert.NotNil(t, err)
}

func TestChat(t *testing.T) {
	server := initTestServer(t, 200, answer, func(req *http.Request) {
		assert.Equal(t, "/chat/completions", req.URL.Path)
		assert.Equal(t, "Bearer key", req.Header.Get("Authorization"))
		b, _ := io.ReadAll(req.Body)
		var r chatRequest
		assert.Nil(t, json.Unmarshal(b, &r))
		assert.Equal(t, "model", r.Model)
		assert.Equal(t, 1, len(r.Messages))
		assert.Nil(t, r.ResponseFormat)
	})
	defer server.Close()
	c, err := NewClient(config.LLMModelSettings{URL: server.URL, Key: "key", Model: "model"}, time.Second)
	require.Nil(t, err)

	res, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	assert.Nil(t, err)
	assert.Equal(t, "olia", res)
}

func TestChatJSON(t *testing.T) {
	server := initTestServer(t, 200, `{"choices":[{"message":{"content":"{\"a\":\"b\"}"}}]}`, func(req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		assert.Contains(t, string(b), `"response_format":{"type":"json_object"}`)
	})
	defer server.Close()
	c, _ := NewClient(config.LLMModelSettings{URL: server.URL}, time.Second)
	var res struct{ A string }

	_, err := c.ChatJSON(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, &res)

	assert.Nil(t, err)
	assert.Equal(t, "b", res.A)
}

func TestChat_Fail(t *testing.T) {
	tests := []struct {
		name  string
		code  int
		body  string
		retry bool
	}{
		{name: "Rate", code: 429, body: "limit", retry: true},
		{name: "Server", code: 500, body: "err", retry: true},
		{name: "Bad", code: 400, body: "err", retry: false},
		{name: "No choices", code: 200, body: `{"choices":[]}`},
		{name: "Wrong json", code: 200, body: `olia`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := initTestServer(t, tt.code, tt.body, nil)
			defer server.Close()
			c, _ := NewClient(config.LLMModelSettings{URL: server.URL}, time.Second)
			_, err := c.Chat(context.Background(), nil)
			require.NotNil(t, err)
			if se, ok := err.(*StatusError); ok {
				assert.Equal(t, tt.retry, se.Retryable())
			}
		})
	}
}
