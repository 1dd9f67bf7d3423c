package upload

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Keys read from the S3 credentials file.
const (
	S3EndpointKey  = "VERSEDECK_S3_ENDPOINT"
	S3AccessKeyKey = "VERSEDECK_S3_ACCESS_KEY"
	S3SecretKeyKey = "VERSEDECK_S3_SECRET_KEY"
	S3UseSSLKey    = "VERSEDECK_S3_USE_SSL"
	S3RegionKey    = "VERSEDECK_S3_REGION"
	S3BucketKey    = "VERSEDECK_S3_BUCKET"
)

// PresignExpiry is the lifetime of returned download URLs.
const PresignExpiry = 7 * 24 * time.Hour

// objectStore is the subset of *minio.Client the backend uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, key string, expires time.Duration, params url.Values) (*url.URL, error)
}

// S3Config holds connection settings parsed from a credentials file.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
}

// S3 uploads to an S3-compatible object store.
type S3 struct {
	newStore func(cfg S3Config) (objectStore, error)
}

// NewS3 creates an S3 backend.
func NewS3() *S3 {
	return &S3{newStore: newMinioStore}
}

// Name implements Backend.
func (s *S3) Name() string { return BackendS3 }

// ReadS3Config parses a dotenv credentials file. USE_SSL defaults to true.
func ReadS3Config(path string) (S3Config, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return S3Config{}, fmt.Errorf("%w: %v", ErrCredentials, err)
	}
	cfg := S3Config{
		Endpoint:  env[S3EndpointKey],
		AccessKey: env[S3AccessKeyKey],
		SecretKey: env[S3SecretKeyKey],
		Region:    env[S3RegionKey],
		Bucket:    env[S3BucketKey],
		UseSSL:    true,
	}
	if v, ok := env[S3UseSSLKey]; ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return S3Config{}, fmt.Errorf("%w: %s=%q is not a boolean", ErrCredentials, S3UseSSLKey, v)
		}
		cfg.UseSSL = b
	}
	for _, key := range []string{S3EndpointKey, S3AccessKeyKey, S3SecretKeyKey} {
		if env[key] == "" {
			return S3Config{}, fmt.Errorf("%w: %s", ErrMissingSetting, key)
		}
	}
	return cfg, nil
}

// Probe implements Backend.
func (s *S3) Probe(credentialsPath string) Status {
	if credentialsPath == "" {
		return Status{Name: s.Name(), Detail: ErrNoCredentials.Error()}
	}
	cfg, err := ReadS3Config(credentialsPath)
	if err != nil {
		return Status{Name: s.Name(), Detail: err.Error()}
	}
	return Status{Name: s.Name(), Available: true, Detail: cfg.Endpoint}
}

// Upload implements Backend. The bucket is req.FolderID or the file's
// default bucket; req.FolderName becomes the key prefix. Missing buckets are
// created.
func (s *S3) Upload(ctx context.Context, credentialsPath string, req *Request) (*Location, error) {
	if credentialsPath == "" {
		return nil, ErrNoCredentials
	}
	cfg, err := ReadS3Config(credentialsPath)
	if err != nil {
		return nil, err
	}
	bucket := req.FolderID
	if bucket == "" {
		bucket = cfg.Bucket
	}
	if bucket == "" {
		return nil, fmt.Errorf("%w: no bucket (set a folder ID or %s)", ErrMissingSetting, S3BucketKey)
	}

	store, err := s.newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentials, err)
	}

	exists, err := store.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: checking bucket %s: %v", ErrFolderFailed, bucket, err)
	}
	if !exists {
		if err := store.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("%w: creating bucket %s: %v", ErrFolderFailed, bucket, err)
		}
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

	key := objectKey(req.FolderName, req.FileName)
	info, err := store.PutObject(ctx, bucket, key, f, size, minio.PutObjectOptions{
		ContentType:  MIMEType(req.Path),
		UserMetadata: map[string]string{"blake3": sum},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	loc := &Location{
		Backend:  s.Name(),
		ID:       bucket + "/" + info.Key,
		Name:     req.FileName,
		URL:      objectURL(cfg, bucket, info.Key),
		Size:     size,
		Checksum: sum,
	}
	if u, err := store.PresignedGetObject(ctx, bucket, info.Key, PresignExpiry, nil); err == nil {
		loc.DownloadURL = u.String()
	}
	return loc, nil
}

// objectKey joins a folder prefix and a file name with forward slashes.
func objectKey(prefix, name string) string {
	prefix = strings.Trim(strings.ReplaceAll(prefix, `\`, "/"), "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// objectURL is the path-style URL of an object.
func objectURL(cfg S3Config, bucket, key string) string {
	scheme := "https"
	if !cfg.UseSSL {
		scheme = "http"
	}
	u := url.URL{Scheme: scheme, Host: cfg.Endpoint, Path: "/" + bucket + "/" + key}
	return u.String()
}

func newMinioStore(cfg S3Config) (objectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Compile-time interface check.
var (
	_ Backend     = (*S3)(nil)
	_ objectStore = (*minio.Client)(nil)
)
