// Package sink opens output destinations by URI.
//
// Supported locations:
//   - a bare path or file:///path writes a local file, creating parent
//     directories
//   - s3://bucket/key streams a multipart upload through the AWS s3 manager
//   - gs://bucket/key streams an object write to Google Cloud Storage
//
// Writers stream; nothing is buffered in full. Close commits the output and
// reports its outcome; Abort discards it instead.
package sink

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Scheme is a destination kind.
type Scheme string

const (
	SchemeFile Scheme = "file"
	SchemeS3   Scheme = "s3"
	SchemeGCS  Scheme = "gs"
)

// Location is a parsed destination URI.
type Location struct {
	Scheme Scheme
	// Bucket is empty for local files.
	Bucket string
	// Key is the object key, or the local path.
	Key string
}

func (l Location) String() string {
	if l.Scheme == SchemeFile {
		return l.Key
	}
	return string(l.Scheme) + "://" + l.Bucket + "/" + l.Key
}

// Base returns the final element of the key.
func (l Location) Base() string {
	return filepath.Base(l.Key)
}

// Join returns a location for name inside l, treating l as a directory.
func (l Location) Join(name string) Location {
	if l.Scheme == SchemeFile {
		l.Key = filepath.Join(l.Key, name)
		return l
	}
	l.Key = strings.TrimSuffix(l.Key, "/")
	if l.Key == "" {
		l.Key = name
	} else {
		l.Key += "/" + name
	}
	return l
}

// ParseURI splits uri into scheme, bucket and key. Anything without a
// scheme is a local path.
func ParseURI(uri string) (Location, error) {
	if uri == "" {
		return Location{}, vizerrors.New(vizerrors.ErrorTypeValidation, "empty output location")
	}
	if !strings.Contains(uri, "://") {
		return Location{Scheme: SchemeFile, Key: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, vizerrors.Wrap(err, vizerrors.ErrorTypeValidation, "invalid output location").
			WithDetail("uri", uri)
	}
	switch Scheme(u.Scheme) {
	case SchemeFile:
		return Location{Scheme: SchemeFile, Key: u.Path}, nil
	case SchemeS3, SchemeGCS:
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, vizerrors.New(vizerrors.ErrorTypeValidation, "object location needs a bucket and a key").
				WithDetail("uri", uri)
		}
		return Location{Scheme: Scheme(u.Scheme), Bucket: u.Host, Key: key}, nil
	default:
		return Location{}, vizerrors.New(vizerrors.ErrorTypeValidation, "unsupported output scheme").
			WithDetail("scheme", u.Scheme)
	}
}

// Options configures remote destinations. The zero value uses ambient
// credentials.
type Options struct {
	// Region is the AWS region; empty uses the SDK's resolution chain.
	Region string
	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string
	// CredentialsFile points at a GCS service account key.
	CredentialsFile string
	// ContentType overrides the type derived from the key's extension.
	ContentType string
	// PartSize and Concurrency tune S3 multipart uploads.
	PartSize    int64
	Concurrency int

	// Uploader replaces the S3 uploader built from the AWS config.
	Uploader Uploader

	Logger *zap.Logger
}

func (o *Options) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Writer is an output destination. Exactly one of Close or Abort ends it;
// calls after the first are no-ops returning the first result.
type Writer interface {
	io.WriteCloser
	// Abort discards everything written so far. Local files are removed
	// and remote uploads are cancelled before the object is created.
	Abort(cause error) error
}

// Open opens a writer for uri.
func Open(ctx context.Context, uri string, opts *Options) (Writer, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	return OpenLocation(ctx, loc, opts)
}

// OpenLocation opens a writer for loc.
func OpenLocation(ctx context.Context, loc Location, opts *Options) (Writer, error) {
	if opts == nil {
		opts = &Options{}
	}
	switch loc.Scheme {
	case SchemeFile:
		return openFile(loc.Key)
	case SchemeS3:
		return openS3(ctx, loc, opts)
	case SchemeGCS:
		return openGCS(ctx, loc, opts)
	default:
		return nil, vizerrors.New(vizerrors.ErrorTypeValidation, "unsupported output scheme").
			WithDetail("scheme", string(loc.Scheme))
	}
}

// fileWriter removes a partially written file on Abort.
type fileWriter struct {
	*os.File
	once   sync.Once
	result error
}

func (f *fileWriter) Close() error {
	f.once.Do(func() { f.result = f.File.Close() })
	return f.result
}

func (f *fileWriter) Abort(error) error {
	f.once.Do(func() {
		_ = f.File.Close()
		if err := os.Remove(f.Name()); err != nil && !os.IsNotExist(err) {
			f.result = vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "cannot remove partial output").
				WithDetail("path", f.Name())
		}
	})
	return f.result
}

func openFile(path string) (Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "cannot create output directory").
				WithDetail("path", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "cannot create output file").
			WithDetail("path", path)
	}
	return &fileWriter{File: f}, nil
}

var contentTypes = map[string]string{
	".vtk":     "application/x-vtk",
	".arrow":   "application/x-arrow",
	".parquet": "application/x-parquet",
	".avro":    "application/x-avro",
	".json":    "application/json",
	".gz":      "application/gzip",
	".zst":     "application/zstd",
	".lz4":     "application/x-lz4",
	".sz":      "application/x-snappy-framed",
	".s2":      "application/x-s2",
}

func contentType(key string, opts *Options) string {
	if opts.ContentType != "" {
		return opts.ContentType
	}
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}
