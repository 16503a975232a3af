package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/config"
	"github.com/airenas/minutego/internal/pkg/utils"
	"github.com/pkg/errors"
)

//Message is a chat completion message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

//Roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

//Client calls OpenAI compatible chat completion endpoint
type Client struct {
	httpclient *http.Client
	url        string
	model      string
	headerKey  string
	headerVal  string
}

type chatRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

//NewClient creates chat completion client for openai or azure provider
func NewClient(s config.LLMModelSettings, timeout time.Duration) (*Client, error) {
	u, err := utils.ParseURL(s.URL)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init llm client")
	}
	base := u.String()
	res := &Client{httpclient: &http.Client{Timeout: timeout}, model: s.Model}
	switch s.Provider {
	case "azure":
		if s.APIVersion == "" {
			return nil, errors.New("No azure api version")
		}
		res.url = utils.URLJoin(base, "openai/deployments", s.Model, "chat/completions") +
			"?api-version=" + url.QueryEscape(s.APIVersion)
		res.headerKey, res.headerVal = "api-key", s.Key
	case "openai", "":
		res.url = utils.URLJoin(base, "chat/completions")
		res.headerKey, res.headerVal = "Authorization", "Bearer "+s.Key
	default:
		return nil, errors.Errorf("Unsupported llm provider '%s'", s.Provider)
	}
	return res, nil
}

//Chat returns assistant answer
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.call(ctx, chatRequest{Model: c.model, Messages: messages})
}

//ChatJSON asks for json object answer and decodes it into res
func (c *Client) ChatJSON(ctx context.Context, messages []Message, res interface{}) (string, error) {
	ans, err := c.call(ctx, chatRequest{Model: c.model, Messages: messages, ResponseFormat: &responseFormat{Type: "json_object"}})
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal([]byte(ans), res); err != nil {
		return "", errors.Wrap(err, "Can't decode llm json answer")
	}
	return ans, nil
}

func (c *Client) call(ctx context.Context, data chatRequest) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", errors.Wrap(err, "Can't marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.headerKey, c.headerVal)

	cmdapp.Log.Debugf("Calling llm %s", c.model)
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "Can't call llm")
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", errors.Wrap(err, "Can't read llm response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	var respData chatResponse
	if err := json.Unmarshal(body, &respData); err != nil {
		return "", errors.Wrap(err, "Can't decode response")
	}
	if len(respData.Choices) == 0 {
		return "", errors.New("No choices in llm response")
	}
	return respData.Choices[0].Message.Content, nil
}

//StatusError is returned on not 2xx llm response
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "llm error (status " + strconv.Itoa(e.Code) + "): " + e.Body
}

//Retryable returns false for client errors except rate limit
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}
