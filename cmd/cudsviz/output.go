package main

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/ajitpratap0/cudsviz/pkg/compression"
	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/formats/columnar"
	"github.com/ajitpratap0/cudsviz/pkg/formats/vtk"
	"github.com/ajitpratap0/cudsviz/pkg/sink"
)

// countingWriter counts bytes on their way to the destination.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// codecFor picks the codec implied by out's extension, falling back to
// the configured one when the extension names none.
func (a *app) codecFor(out string) (*compression.Config, error) {
	cc, err := a.cfg.Output.CompressionConfig()
	if err != nil {
		return nil, err
	}
	if alg := compression.FromExtension(out); alg != compression.None {
		cc.Algorithm = alg
	}
	return cc, nil
}

// documentBase strips the codec and document suffixes from doc, so
// runs/mesh.yaml.zst becomes runs/mesh.
func documentBase(doc string) string {
	doc = compression.TrimExtension(doc)
	return strings.TrimSuffix(doc, filepath.Ext(doc))
}

// defaultOutput names the VTK file written next to doc.
func defaultOutput(doc string, cc *compression.Config) string {
	return documentBase(doc) + ".vtk" + compression.Extension(cc.Algorithm)
}

// decodeAndConvert reads the document at path and converts it.
func (a *app) decodeAndConvert(path string) (cuds.Container, dataset.Dataset, error) {
	container, err := cuds.DecodeFile(path)
	if err != nil {
		return nil, nil, err
	}
	conv, err := a.converter()
	if err != nil {
		return nil, nil, err
	}
	ds, err := conv.Convert(container)
	if err != nil {
		return nil, nil, err
	}
	return container, ds, nil
}

// writeVTK persists ds to the destination uri and returns the bytes
// written after compression. A failed write leaves no output behind.
func (a *app) writeVTK(ctx context.Context, ds dataset.Dataset, uri string, cc *compression.Config) (n int64, err error) {
	dst, err := sink.Open(ctx, uri, a.sinkOptions())
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, dst.Abort(err))
			return
		}
		if err = dst.Close(); err == nil {
			a.collector.AddBytes("vtk", n)
		}
	}()

	counter := &countingWriter{w: dst}
	cw, err := compression.NewWriter(counter, cc)
	if err != nil {
		return 0, err
	}
	if err := vtk.Write(cw, ds); err != nil {
		_ = cw.Close()
		return counter.n, err
	}
	if err := cw.Close(); err != nil {
		return counter.n, err
	}
	return counter.n, nil
}

// writeColumnar persists one association of ds as a columnar table.
func (a *app) writeColumnar(ctx context.Context, ds dataset.Dataset, assoc dataset.Association, uri string, wc *columnar.WriterConfig) (n int64, err error) {
	dst, err := sink.Open(ctx, uri, a.sinkOptions())
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, dst.Abort(err))
			return
		}
		if err = dst.Close(); err == nil {
			a.collector.AddBytes(string(wc.Format), n)
		}
	}()

	return columnar.WriteFrame(dst, columnar.DatasetFrame(ds, assoc), wc)
}
