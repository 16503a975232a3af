package httpstt

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

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/transcription"
	"github.com/airenas/minutego/internal/pkg/utils"
	"github.com/pkg/errors"
)

//Name of the adapter
const Name = "http_stt"

//Adapter sends local audio file to a speech to text service and gets segments back
type Adapter struct {
	httpclient     *http.Client
	url            string
	maxAudioLength int
}

//New creates the adapter, empty url makes it unavailable
func New(urlStr string, maxAudioLength int, timeout time.Duration) (*Adapter, error) {
	res := &Adapter{httpclient: &http.Client{Timeout: timeout}, maxAudioLength: maxAudioLength}
	if urlStr == "" {
		return res, nil
	}
	u, err := utils.ParseURL(urlStr)
	if err != nil {
		return nil, err
	}
	res.url = u.String()
	return res, nil
}

//Name returns adapter name
func (a *Adapter) Name() string { return Name }

//MaxAudioLength returns max audio length in seconds
func (a *Adapter) MaxAudioLength() int { return a.maxAudioLength }

//Type returns transcription.Synchronous
func (a *Adapter) Type() transcription.AdapterType { return transcription.Synchronous }

//IsAvailable requires service url
func (a *Adapter) IsAvailable() bool { return a.url != "" }

//Start uploads file and returns its transcript
func (a *Adapter) Start(ctx context.Context, in *transcription.Input) (*messages.TranscriptionJobData, error) {
	if in == nil || in.FilePath == "" {
		return nil, errors.New("No file")
	}
	f, err := os.Open(in.FilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open %s", in.FilePath)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(in.FilePath))
	if err != nil {
		return nil, errors.Wrap(err, "Can't add file to request")
	}
	if _, err = io.Copy(part, f); err != nil {
		return nil, errors.Wrap(err, "Can't add file to request")
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	cmdapp.Log.Debugf("Sending audio to: %s", a.url)
	resp, err := a.httpclient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Can't call stt")
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return nil, errors.Wrap(err, "Can't transcribe")
	}
	var respData response
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return nil, errors.Wrap(err, "Can't decode response")
	}
	if len(respData.Segments) == 0 {
		return nil, errors.New("Empty transcript")
	}
	res := &messages.TranscriptionJobData{TranscriptionService: Name, JobName: messages.SynchronousJobName}
	for _, s := range respData.Segments {
		res.Transcript = append(res.Transcript, api.DialogueEntry{Speaker: s.Speaker, Text: s.Text, StartTime: s.Start, EndTime: s.End})
	}
	return res, nil
}

//Check returns data unchanged
func (a *Adapter) Check(ctx context.Context, data *messages.TranscriptionJobData) (*messages.TranscriptionJobData, error) {
	return data, nil
}

type response struct {
	Segments []struct {
		Speaker string  `json:"speaker"`
		Text    string  `json:"text"`
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
	} `json:"segments"`
}
