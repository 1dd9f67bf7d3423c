package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// CredentialsEnv is the conventional Google credentials variable, used when
// no credentials file is given.
const CredentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"

const folderMIMEType = "application/vnd.google-apps.folder"

// driveAPI is the subset of Drive v3 the backend uses.
type driveAPI interface {
	FindFolder(ctx context.Context, name string) (string, bool, error)
	CreateFolder(ctx context.Context, name string) (string, error)
	CreateFile(ctx context.Context, meta *drive.File, media io.Reader) (*drive.File, error)
}

// GDrive uploads to Google Drive with a service account.
type GDrive struct {
	newAPI func(ctx context.Context, credentialsJSON []byte) (driveAPI, error)
}

// NewGDrive creates a Google Drive backend.
func NewGDrive() *GDrive {
	return &GDrive{newAPI: newDriveService}
}

// Name implements Backend.
func (g *GDrive) Name() string { return BackendGDrive }

// serviceAccount holds the fields of a key file checked before use.
type serviceAccount struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// readServiceAccount loads and checks a service-account key file.
func readServiceAccount(path string) ([]byte, *serviceAccount, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided credentials file
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCredentials, err)
	}
	var sa serviceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, nil, fmt.Errorf("%w: not a JSON key file: %v", ErrCredentials, err)
	}
	switch {
	case sa.Type != "service_account":
		return nil, nil, fmt.Errorf("%w: type %q, want service_account", ErrCredentials, sa.Type)
	case sa.ClientEmail == "" || sa.PrivateKey == "":
		return nil, nil, fmt.Errorf("%w: key file lacks client_email or private_key", ErrCredentials)
	}
	return data, &sa, nil
}

// Probe implements Backend.
func (g *GDrive) Probe(credentials string) Status {
	if credentials == "" {
		credentials = os.Getenv(CredentialsEnv)
	}
	if credentials == "" {
		return Status{Name: g.Name(), Detail: ErrNoCredentials.Error()}
	}
	_, sa, err := readServiceAccount(credentials)
	if err != nil {
		return Status{Name: g.Name(), Detail: err.Error()}
	}
	return Status{Name: g.Name(), Available: true, Detail: sa.ClientEmail}
}

// Upload implements Backend. A folder ID wins over a folder name; a name is
// looked up and created when absent. With neither the file lands in the
// service account's root.
func (g *GDrive) Upload(ctx context.Context, credentials string, req *Request) (*Location, error) {
	if credentials == "" {
		credentials = os.Getenv(CredentialsEnv)
	}
	if credentials == "" {
		return nil, ErrNoCredentials
	}
	data, _, err := readServiceAccount(credentials)
	if err != nil {
		return nil, err
	}
	api, err := g.newAPI(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentials, err)
	}

	parent, err := resolveFolder(ctx, api, req)
	if err != nil {
		return nil, err
	}

	sum, size, err := Checksum(req.Path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", req.Path, err)
	}
	defer func() { _ = f.Close() }()

	meta := &drive.File{Name: req.FileName, MimeType: MIMEType(req.Path)}
	if parent != "" {
		meta.Parents = []string{parent}
	}
	created, err := api.CreateFile(ctx, meta, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return &Location{
		Backend:     g.Name(),
		ID:          created.Id,
		Name:        created.Name,
		URL:         created.WebViewLink,
		DownloadURL: created.WebContentLink,
		Size:        size,
		Checksum:    sum,
	}, nil
}

func resolveFolder(ctx context.Context, api driveAPI, req *Request) (string, error) {
	if req.FolderID != "" || req.FolderName == "" {
		return req.FolderID, nil
	}
	id, found, err := api.FindFolder(ctx, req.FolderName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFolderFailed, err)
	}
	if found {
		return id, nil
	}
	id, err = api.CreateFolder(ctx, req.FolderName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFolderFailed, err)
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Drive v3 client
// ---------------------------------------------------------------------------

type driveService struct {
	files *drive.FilesService
}

func newDriveService(ctx context.Context, credentialsJSON []byte) (driveAPI, error) {
	srv, err := drive.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(drive.DriveFileScope),
	)
	if err != nil {
		return nil, err
	}
	return &driveService{files: srv.Files}, nil
}

// folderQuery builds a Drive search for a non-trashed folder named name.
func folderQuery(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escaped, folderMIMEType)
}

func (d *driveService) FindFolder(ctx context.Context, name string) (string, bool, error) {
	list, err := d.files.List().
		Q(folderQuery(name)).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", false, err
	}
	if len(list.Files) == 0 {
		return "", false, nil
	}
	return list.Files[0].Id, true, nil
}

func (d *driveService) CreateFolder(ctx context.Context, name string) (string, error) {
	f, err := d.files.Create(&drive.File{Name: name, MimeType: folderMIMEType}).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return f.Id, nil
}

func (d *driveService) CreateFile(ctx context.Context, meta *drive.File, media io.Reader) (*drive.File, error) {
	return d.files.Create(meta).
		Media(media, googleapi.ContentType(meta.MimeType)).
		Fields("id, name, webViewLink, webContentLink").
		Context(ctx).
		Do()
}

// Compile-time interface check.
var _ Backend = (*GDrive)(nil)
