package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Backend names.
const (
	BackendAuto   = "auto"
	BackendGDrive = "gdrive"
	BackendS3     = "s3"
)

// BackendNames lists the accepted backend names.
var BackendNames = []string{BackendAuto, BackendGDrive, BackendS3}

// Request describes one file to publish.
type Request struct {
	Path       string // local file
	FolderID   string // Drive folder ID or S3 bucket
	FolderName string // Drive folder name (found or created) or S3 key prefix
	FileName   string // remote name; defaults to the base name of Path
}

// Location is where an uploaded file ended up.
type Location struct {
	Backend     string `json:"backend"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum"`
}

// Status reports whether a backend accepts a credentials file.
type Status struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

// Backend publishes files to one kind of remote storage.
type Backend interface {
	Name() string
	Probe(credentials string) Status
	Upload(ctx context.Context, credentials string, req *Request) (*Location, error)
}

// Manager dispatches uploads to backends.
type Manager struct {
	backends []Backend
	logger   logrus.FieldLogger
}

// NewManager creates a Manager. backends are listed in auto priority order.
func NewManager(logger logrus.FieldLogger, backends ...Backend) *Manager {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Manager{backends: backends, logger: logger}
}

// Statuses probes every backend against credentials.
func (m *Manager) Statuses(credentials string) []Status {
	out := make([]Status, 0, len(m.backends))
	for _, b := range m.backends {
		out = append(out, b.Probe(credentials))
	}
	return out
}

// Resolve returns the backend for name, picking the first one accepting
// credentials when name is "auto" or empty.
func (m *Manager) Resolve(name, credentials string) (Backend, error) {
	if name == "" || name == BackendAuto {
		if credentials == "" {
			return nil, ErrNoCredentials
		}
		var details []string
		for _, b := range m.backends {
			st := b.Probe(credentials)
			if st.Available {
				return b, nil
			}
			details = append(details, fmt.Sprintf("%s: %s", b.Name(), st.Detail))
		}
		return nil, fmt.Errorf("%w: %s", ErrNoBackend, strings.Join(details, "; "))
	}
	for _, b := range m.backends {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Upload publishes req with the named backend.
func (m *Manager) Upload(ctx context.Context, backend, credentials string, req *Request) (*Location, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	b, err := m.Resolve(backend, credentials)
	if err != nil {
		return nil, err
	}
	return m.upload(ctx, b, credentials, req)
}

// UploadAll publishes every path with one backend, stopping at the first
// failure. It returns the name of the backend used, empty when none could be
// resolved. Locations of files already sent are returned with the error.
func (m *Manager) UploadAll(ctx context.Context, backend, credentials string, base Request, paths ...string) (string, []Location, error) {
	b, err := m.Resolve(backend, credentials)
	if err != nil {
		return "", nil, err
	}
	locs := make([]Location, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return b.Name(), locs, err
		}
		req := base
		req.Path = p
		req.FileName = ""
		loc, err := m.upload(ctx, b, credentials, &req)
		if err != nil {
			return b.Name(), locs, err
		}
		locs = append(locs, *loc)
	}
	return b.Name(), locs, nil
}

func (m *Manager) upload(ctx context.Context, b Backend, credentials string, req *Request) (*Location, error) {
	r, err := normalize(req)
	if err != nil {
		return nil, err
	}
	log := m.logger.WithFields(logrus.Fields{"backend": b.Name(), "file": r.FileName})
	log.Debug("uploading")

	loc, err := b.Upload(ctx, credentials, r)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	log.WithField("id", loc.ID).Info("uploaded")
	return loc, nil
}

// normalize checks the local file and fills the remote name.
func normalize(req *Request) (*Request, error) {
	info, err := os.Stat(req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, req.Path)
		}
		return nil, fmt.Errorf("checking %s: %w", req.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, req.Path)
	}

	r := *req
	if r.FileName == "" {
		r.FileName = filepath.Base(r.Path)
	}
	if strings.ContainsAny(r.FileName, `/\`) || r.FileName == "." || r.FileName == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFileName, r.FileName)
	}
	return &r, nil
}
