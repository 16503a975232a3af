package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/utils"
	"github.com/pkg/errors"
)

//Duration communicates with audio duration service
type Duration struct {
	httpclient *http.Client
	url        string
	timeout    time.Duration
}

//NewDurationClient creates a duration client
func NewDurationClient(urlStr string) (*Duration, error) {
	res := Duration{}
	var err error
	urlRes, err := utils.ParseURL(urlStr)
	if err != nil {
		return nil, err
	}
	res.url = urlRes.String()
	res.httpclient = &http.Client{}
	res.timeout = time.Minute
	return &res, nil
}

//GetFile returns duration of the local audio file
func (dc *Duration) GetFile(ctx context.Context, path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "Can't open %s", path)
	}
	defer f.Close()
	return dc.Get(ctx, filepath.Base(path), f)
}

//Get return duration by calling the service
func (dc *Duration) Get(ctx context.Context, name string, file io.Reader) (time.Duration, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return 0, errors.Wrap(err, "Can't add file to request")
	}
	_, err = io.Copy(part, file)
	if err != nil {
		return 0, errors.Wrap(err, "Can't add file to request")
	}
	writer.Close()

	ctx, cancel := context.WithTimeout(ctx, dc.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", dc.url, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	cmdapp.Log.Debugf("Sending audio to: %s", dc.url)
	resp, err := dc.httpclient.Do(req)
	if err != nil {
		return 0, err
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return 0, errors.Wrap(err, "Can't get duration")
	}
	var respData durationResponse
	err = json.NewDecoder(resp.Body).Decode(&respData)
	if err != nil {
		return 0, errors.Wrap(err, "Can't decode response")
	}
	return time.Millisecond * time.Duration(int64(respData.Duration*1000)), nil
}

type durationResponse struct {
	Duration float64 `json:"duration"`
}
