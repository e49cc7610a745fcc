package sink

import (
	"context"
	"sync"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// gcsWriter closes the client it was opened with. Cancelling its context
// before Close stops the object from being created.
type gcsWriter struct {
	*storage.Writer
	client *storage.Client
	cancel context.CancelFunc
	logger *zap.Logger
	loc    Location
	once   sync.Once
	result error
}

func (g *gcsWriter) Close() error {
	g.once.Do(func() {
		err := g.Writer.Close()
		g.release()
		if err != nil {
			g.result = vizerrors.Wrap(err, vizerrors.ErrorTypeConnection, "failed to write to GCS").
				WithDetail("bucket", g.loc.Bucket).
				WithDetail("key", g.loc.Key)
			return
		}
		g.logger.Debug("upload complete")
	})
	return g.result
}

func (g *gcsWriter) Abort(cause error) error {
	g.once.Do(func() {
		g.cancel()
		_ = g.Writer.Close()
		g.release()
		g.logger.Debug("upload aborted", zap.Error(cause))
	})
	return g.result
}

func (g *gcsWriter) release() {
	g.cancel()
	if err := g.client.Close(); err != nil {
		g.logger.Warn("failed to close storage client", zap.Error(err))
	}
}

func openGCS(ctx context.Context, loc Location, opts *Options) (Writer, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeConnection, "failed to create GCS client")
	}

	wctx, cancel := context.WithCancel(ctx)
	w := client.Bucket(loc.Bucket).Object(loc.Key).NewWriter(wctx)
	w.ContentType = contentType(loc.Key, opts)
	return &gcsWriter{
		Writer: w,
		client: client,
		cancel: cancel,
		logger: opts.logger().With(zap.String("location", loc.String())),
		loc:    loc,
	}, nil
}
