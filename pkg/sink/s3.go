package sink

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Uploader is the subset of *manager.Uploader the s3 sink uses.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

func newUploader(ctx context.Context, opts *Options) (Uploader, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "failed to load AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return manager.NewUploader(client, func(u *manager.Uploader) {
		if opts.PartSize > 0 {
			u.PartSize = opts.PartSize
		}
		if opts.Concurrency > 0 {
			u.Concurrency = opts.Concurrency
		}
	}), nil
}

var errAborted = errors.New("output aborted")

// pipeWriter feeds an upload running in its own goroutine.
type pipeWriter struct {
	pw     *io.PipeWriter
	done   chan error
	once   sync.Once
	result error
}

func (p *pipeWriter) Write(b []byte) (int, error) {
	return p.pw.Write(b)
}

// Close ends the stream and waits for the upload to finish.
func (p *pipeWriter) Close() error {
	p.once.Do(func() {
		p.pw.Close()
		p.result = <-p.done
	})
	return p.result
}

// Abort fails the stream so the uploader gives up without completing the
// object, then waits for it to return.
func (p *pipeWriter) Abort(cause error) error {
	p.once.Do(func() {
		if cause == nil {
			cause = errAborted
		}
		p.pw.CloseWithError(cause)
		<-p.done
	})
	return p.result
}

func openS3(ctx context.Context, loc Location, opts *Options) (Writer, error) {
	uploader := opts.Uploader
	if uploader == nil {
		var err error
		if uploader, err = newUploader(ctx, opts); err != nil {
			return nil, err
		}
	}

	pr, pw := io.Pipe()
	w := &pipeWriter{pw: pw, done: make(chan error, 1)}
	logger := opts.logger().With(zap.String("location", loc.String()))

	go func() {
		_, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(loc.Bucket),
			Key:         aws.String(loc.Key),
			Body:        pr,
			ContentType: aws.String(contentType(loc.Key, opts)),
		})
		if err != nil {
			err = vizerrors.Wrap(err, vizerrors.ErrorTypeConnection, "failed to upload to S3").
				WithDetail("bucket", loc.Bucket).
				WithDetail("key", loc.Key)
			logger.Warn("upload failed", zap.Error(err))
		} else {
			logger.Debug("upload complete")
		}
		pr.CloseWithError(err)
		w.done <- err
	}()
	return w, nil
}
