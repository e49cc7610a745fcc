// Package bridge pushes converted containers into an external
// visualization engine.
//
// The engine itself is not part of cudsviz. It is described by the Engine,
// Connection and Source interfaces, and LoadedIn drives it through one
// scoped exchange:
//
//	err := bridge.LoadedIn(ctx, engine, conv, mesh, func(src bridge.Source) error {
//	    return render(src)
//	})
//
// LoadedIn converts the container, persists it as legacy VTK in a private
// temporary directory, opens the file in the engine and calls fn with the
// resulting source. Whatever fn returns, the source is deleted, a
// connection opened by LoadedIn is disconnected and the directory is
// removed.
package bridge

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ajitpratap0/cudsviz/pkg/converter"
	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/formats/vtk"
	"github.com/ajitpratap0/cudsviz/pkg/observability"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// TempFileName is the name of the persisted dataset inside the scope's
// temporary directory.
const TempFileName = "temp_cuds.vtk"

// Source is a dataset loaded in the engine.
type Source interface {
	Name() string
}

// Connection is a live session with the engine.
type Connection interface {
	// Open loads the dataset file at path.
	Open(ctx context.Context, path string) (Source, error)
	// Delete unloads a source returned by Open.
	Delete(src Source) error
	Disconnect() error
}

// Engine hands out connections.
type Engine interface {
	Connect(ctx context.Context) (Connection, error)
	// ActiveConnection returns the current connection, or nil.
	ActiveConnection() Connection
}

type options struct {
	logger  *zap.Logger
	tempDir string
}

// Option configures LoadedIn.
type Option func(*options)

// WithLogger sets the logger for scope diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTempDir sets the parent of the scope's temporary directory. The
// default is os.TempDir.
func WithTempDir(dir string) Option {
	return func(o *options) { o.tempDir = dir }
}

// LoadedIn makes container available in engine for the duration of fn.
// A nil conv uses a default converter. When conversion fails nothing is
// pushed to the engine and the conversion error is returned unchanged.
// Cleanup failures are joined to the error fn returned.
func LoadedIn(ctx context.Context, engine Engine, conv *converter.Converter, container cuds.Container, fn func(Source) error, opts ...Option) (err error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if conv == nil {
		conv = converter.New(converter.WithLogger(o.logger))
	}

	ctx, span := observability.StartSpan(ctx, "bridge.loaded_in")
	defer func() {
		span.Finish(err)
		span.End()
	}()

	dir, err := os.MkdirTemp(o.tempDir, "cudsviz-")
	if err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "cannot create temporary directory")
	}
	defer func() {
		if rerr := os.RemoveAll(dir); rerr != nil {
			err = errors.Join(err, vizerrors.Wrap(rerr, vizerrors.ErrorTypeFile, "cannot remove temporary directory").
				WithDetail("path", dir))
		}
	}()

	span.RecordContainer(container)
	ds, err := conv.Convert(container)
	if err != nil {
		return err
	}
	span.RecordDataset(ds)

	path := filepath.Join(dir, TempFileName)
	if err := vtk.WriteFile(path, ds, nil); err != nil {
		return err
	}

	conn := engine.ActiveConnection()
	opened := conn == nil
	span.SetAttribute("connection.reused", !opened)
	if opened {
		conn, err = engine.Connect(ctx)
		if err != nil {
			return vizerrors.Wrap(err, vizerrors.ErrorTypeConnection, "cannot connect to engine")
		}
		defer func() {
			if derr := conn.Disconnect(); derr != nil {
				err = errors.Join(err, vizerrors.Wrap(derr, vizerrors.ErrorTypeConnection, "cannot disconnect from engine"))
			}
		}()
	}

	src, err := conn.Open(ctx, path)
	if err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeConnection, "engine cannot open dataset").
			WithDetail("path", path)
	}
	defer func() {
		if derr := conn.Delete(src); derr != nil {
			err = errors.Join(err, vizerrors.Wrap(derr, vizerrors.ErrorTypeConnection, "cannot delete engine source").
				WithDetail("source", src.Name()))
		}
	}()

	o.logger.Debug("dataset loaded in engine",
		zap.String("container", container.Name()),
		zap.String("source", src.Name()),
		zap.String("path", path),
		zap.Bool("connection_reused", !opened))

	return fn(src)
}
