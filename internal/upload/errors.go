package upload

import "errors"

// Sentinel errors.
var (
	ErrNilRequest      = errors.New("nil upload request")
	ErrUnknownBackend  = errors.New("unknown upload backend")
	ErrNoBackend       = errors.New("no upload backend accepts the credentials")
	ErrNoCredentials   = errors.New("no credentials file given")
	ErrCredentials     = errors.New("invalid credentials")
	ErrFileNotFound    = errors.New("file to upload not found")
	ErrUploadFailed    = errors.New("upload failed")
	ErrFolderFailed    = errors.New("resolving destination folder failed")
	ErrMissingSetting  = errors.New("missing credentials setting")
	ErrInvalidFileName = errors.New("invalid remote file name")
)
