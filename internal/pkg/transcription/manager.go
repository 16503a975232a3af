package transcription

import (
	"context"
	"os"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/airenas/minutego/internal/pkg/spelling"
	"github.com/pkg/errors"
)

type (
	// Downloader saves stored object into local dir
	Downloader interface {
		Download(ctx context.Context, key, dir string) (string, error)
	}

	// DurationGetter returns audio file duration
	DurationGetter interface {
		GetFile(ctx context.Context, path string) (time.Duration, error)
	}
)

//Manager selects adapters and runs transcription steps
type Manager struct {
	adapters []Adapter
	byName   map[string]Adapter
	storage  Downloader
	duration DurationGetter
	tempDir  string
}

//NewManager keeps available adapters from registry in the order of names.
//Availability is checked once here
func NewManager(names []string, registry []Adapter, storage Downloader, duration DurationGetter) (*Manager, error) {
	if storage == nil {
		return nil, errors.New("No storage")
	}
	if duration == nil {
		return nil, errors.New("No duration getter")
	}
	all := map[string]Adapter{}
	for _, a := range registry {
		all[a.Name()] = a
	}
	res := &Manager{storage: storage, duration: duration, byName: map[string]Adapter{}}
	for _, n := range names {
		a, ok := all[n]
		if !ok {
			cmdapp.Log.Warnf("Adapter not found %s", n)
			continue
		}
		if !a.IsAvailable() {
			cmdapp.Log.Warnf("Transcription service %s is not available", n)
			continue
		}
		if _, ok := res.byName[n]; ok {
			continue
		}
		cmdapp.Log.Infof("Registered transcription service %s (%s, max %ds)", n, a.Type(), a.MaxAudioLength())
		res.adapters = append(res.adapters, a)
		res.byName[n] = a
	}
	if len(res.adapters) == 0 {
		cmdapp.Log.Warn("No transcription services are available")
	}
	return res, nil
}

//Names returns available adapter names in selection order
func (m *Manager) Names() []string {
	res := make([]string, 0, len(m.adapters))
	for _, a := range m.adapters {
		res = append(res, a.Name())
	}
	return res
}

//Select returns the first adapter able to process audio of duration d
func (m *Manager) Select(d time.Duration) (Adapter, error) {
	sec := int(d.Seconds())
	for _, a := range m.adapters {
		if a.MaxAudioLength() >= sec {
			return a, nil
		}
	}
	return nil, errors.Errorf("No transcription services are available for %ds audio. Available services: %v", sec, m.Names())
}

//Check polls adapter job, transcript is converted to British spelling
func (m *Manager) Check(ctx context.Context, name string, data *messages.TranscriptionJobData) (*messages.TranscriptionJobData, error) {
	a, ok := m.byName[name]
	if !ok || !a.IsAvailable() {
		return nil, errors.Errorf("Transcription service %s is not available", name)
	}
	res, err := a.Check(ctx, data)
	if err != nil {
		return nil, err
	}
	return british(res), nil
}

//Start downloads the newest recording, selects adapter by audio duration and starts transcription.
//If adapter does not return transcript, job is checked once
func (m *Manager) Start(ctx context.Context, tr *persistence.Transcription) (*messages.TranscriptionJobData, error) {
	if len(tr.Recordings) == 0 {
		return nil, errors.Errorf("No recording for transcription %s", tr.ID)
	}
	rec := tr.Recordings[0]
	dir, err := os.MkdirTemp(m.tempDir, "transcription-")
	if err != nil {
		return nil, errors.Wrap(err, "Can't create temp dir")
	}
	defer os.RemoveAll(dir)

	path, err := m.storage.Download(ctx, rec.S3FileKey, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't download %s", rec.S3FileKey)
	}
	d, err := m.duration.GetFile(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, "Can't get duration")
	}
	a, err := m.Select(d)
	if err != nil {
		return nil, err
	}
	cmdapp.Log.Infof("Transcribing %s (%v) with %s", rec.S3FileKey, d, a.Name())
	in := &Input{Recording: rec}
	if a.Type() == Synchronous {
		in = &Input{FilePath: path}
	}
	res, err := a.Start(ctx, in)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't start %s", a.Name())
	}
	if !res.HasTranscript() {
		return m.Check(ctx, a.Name(), res)
	}
	return british(res), nil
}

func british(data *messages.TranscriptionJobData) *messages.TranscriptionJobData {
	if !data.HasTranscript() {
		return data
	}
	res := data.Copy()
	res.Transcript = spelling.Entries(res.Transcript)
	return res
}
