package heartbeat

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const fileExt = ".heartbeat"

//FileStore keeps heartbeats as worker_<id>.heartbeat file modification times
type FileStore struct {
	dir string
	now func() time.Time
}

//NewFileStore creates the dir if needed
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("No heartbeat dir")
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "Can't create %s", dir)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

//Touch creates or updates worker file
func (s *FileStore) Touch(ctx context.Context, id string) error {
	p := filepath.Join(s.dir, workerName(id)+fileExt)
	t := s.now()
	if err := os.Chtimes(p, t, t); err == nil {
		return nil
	}
	f, err := os.Create(p)
	if err != nil {
		return errors.Wrapf(err, "Can't create %s", p)
	}
	f.Close()
	return os.Chtimes(p, t, t)
}

//Ages returns ages of worker files
func (s *FileStore) Ages(ctx context.Context) (map[string]time.Duration, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "worker_*"+fileExt))
	if err != nil {
		return nil, errors.Wrap(err, "Can't list heartbeats")
	}
	now := s.now()
	res := map[string]time.Duration{}
	for _, f := range files {
		st, err := os.Stat(f)
		if err != nil {
			continue
		}
		res[strings.TrimSuffix(filepath.Base(f), fileExt)] = now.Sub(st.ModTime())
	}
	return res, nil
}
