package sink

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri  string
		want Location
	}{
		{"out/mesh.vtk", Location{Scheme: SchemeFile, Key: "out/mesh.vtk"}},
		{"file:///tmp/mesh.vtk", Location{Scheme: SchemeFile, Key: "/tmp/mesh.vtk"}},
		{"s3://bucket/runs/1/mesh.vtk.zst", Location{Scheme: SchemeS3, Bucket: "bucket", Key: "runs/1/mesh.vtk.zst"}},
		{"gs://data/mesh.vtk", Location{Scheme: SchemeGCS, Bucket: "data", Key: "mesh.vtk"}},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := ParseURI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "s3://bucket", "s3:///key", "ftp://host/file"} {
		_, err := ParseURI(bad)
		assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeValidation), bad)
	}
}

func TestLocationJoin(t *testing.T) {
	loc, err := ParseURI("s3://bucket/out/")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/out/mesh.vtk", loc.Join("mesh.vtk").String())
	assert.Equal(t, "mesh.vtk", loc.Join("mesh.vtk").Base())

	local, err := ParseURI("results")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("results", "a.vtk"), local.Join("a.vtk").String())
}

func TestOpenLocalCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.vtk")

	w, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	_, err = io.WriteString(w, "# vtk DataFile Version 3.0\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# vtk DataFile Version 3.0\n", string(data))
}

func TestAbortRemovesLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "partial.vtk")

	w, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	_, err = io.WriteString(w, "# vtk DataFile")
	require.NoError(t, err)
	require.NoError(t, w.Abort(errors.New("encoder failed")))
	require.NoError(t, w.Close())

	assert.NoFileExists(t, path)
}

type fakeUploader struct {
	mu    sync.Mutex
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input, f.body = input, body
	return &manager.UploadOutput{Key: input.Key}, nil
}

func TestOpenS3StreamsThroughUploader(t *testing.T) {
	up := &fakeUploader{}
	w, err := Open(context.Background(), "s3://bucket/runs/mesh.vtk.gz", &Options{Uploader: up})
	require.NoError(t, err)

	_, err = w.Write([]byte("chunk-1;"))
	require.NoError(t, err)
	_, err = w.Write([]byte("chunk-2"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	up.mu.Lock()
	defer up.mu.Unlock()
	assert.Equal(t, "chunk-1;chunk-2", string(up.body))
	assert.Equal(t, "bucket", aws.ToString(up.input.Bucket))
	assert.Equal(t, "runs/mesh.vtk.gz", aws.ToString(up.input.Key))
	assert.Equal(t, "application/gzip", aws.ToString(up.input.ContentType))
}

func TestOpenS3ReportsUploadFailure(t *testing.T) {
	up := &fakeUploader{err: errors.New("access denied")}
	w, err := Open(context.Background(), "s3://bucket/mesh.vtk", &Options{Uploader: up, ContentType: "text/plain"})
	require.NoError(t, err)

	err = w.Close()
	require.Error(t, err)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeConnection))
	assert.Contains(t, err.Error(), "access denied")
}

func TestAbortCancelsS3Upload(t *testing.T) {
	up := &fakeUploader{}
	w, err := Open(context.Background(), "s3://bucket/mesh.vtk", &Options{Uploader: up})
	require.NoError(t, err)

	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, w.Abort(errors.New("encoder failed")))

	up.mu.Lock()
	defer up.mu.Unlock()
	assert.Nil(t, up.input, "aborted upload must not complete")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/x-vtk", contentType("a/b.VTK", &Options{}))
	assert.Equal(t, "application/x-parquet", contentType("a.parquet", &Options{}))
	assert.Equal(t, "application/octet-stream", contentType("a.bin", &Options{}))
	assert.Equal(t, "text/plain", contentType("a.vtk", &Options{ContentType: "text/plain"}))
}
