// Package compression provides the streaming codecs cudsviz wraps around
// persisted outputs.
//
// # Overview
//
// The compression package provides:
//   - Multiple compression algorithms (Gzip, Snappy, LZ4, Zstd, S2)
//   - Configurable compression levels (Fastest, Default, Better, Best)
//   - Pooled zstd encoders shared across writers
//   - File extension mapping, so "out.vtk.zst" selects zstd
//
// # Algorithm Selection
//
// Choose algorithms based on your requirements:
//   - Snappy/S2: Best for speed, moderate compression
//   - LZ4: Extremely fast, decent compression
//   - Zstd: Best compression ratio, good speed
//   - Gzip: Wide compatibility, readable by most visualization tools
//
// # Basic Usage
//
//	w, err := compression.NewWriter(file, &compression.Config{
//	    Algorithm: compression.Zstd,
//	    Level:     compression.Better,
//	})
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
// Closing a writer flushes the codec but never closes the underlying
// writer.
package compression

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None writes the output unchanged
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
)

// Algorithms lists every supported algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2}
}

// ParseAlgorithm parses an algorithm name. The empty string is None.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return None, nil
	}
	alg := Algorithm(strings.ToLower(s))
	for _, known := range Algorithms() {
		if alg == known {
			return alg, nil
		}
	}
	return "", vizerrors.Newf(vizerrors.ErrorTypeValidation, "unsupported compression algorithm: %s", s)
}

// Level controls the trade-off between compression speed and ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

// ParseLevel parses "fastest", "default", "better" or "best". The empty
// string is Default.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return Default, nil
	case "fastest":
		return Fastest, nil
	case "better":
		return Better, nil
	case "best":
		return Best, nil
	default:
		return 0, vizerrors.Newf(vizerrors.ErrorTypeValidation, "unsupported compression level: %s", s)
	}
}

// Config represents codec configuration.
type Config struct {
	Algorithm Algorithm // Compression algorithm to use
	Level     Level     // Compression level
}

// DefaultConfig returns an uncompressed configuration; plain legacy VTK is
// what visualization tools read directly.
func DefaultConfig() *Config {
	return &Config{
		Algorithm: None,
		Level:     Default,
	}
}

// NewWriter returns a writer that compresses into w. If config is nil,
// default configuration is used.
func NewWriter(w io.Writer, config *Config) (io.WriteCloser, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Algorithm {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		gw, err := gzip.NewWriterLevel(w, mapGzipLevel(config.Level))
		if err != nil {
			return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "invalid gzip level")
		}
		return gw, nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case LZ4:
		lw := lz4.NewWriter(w)
		if err := lw.Apply(lz4.CompressionLevelOption(mapLZ4Level(config.Level))); err != nil {
			return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "invalid lz4 options")
		}
		return lw, nil
	case Zstd:
		return newZstdWriter(w, config.Level), nil
	case S2:
		return s2.NewWriter(w, mapS2Level(config.Level)...), nil
	default:
		return nil, vizerrors.Newf(vizerrors.ErrorTypeValidation, "unsupported compression algorithm: %s", config.Algorithm)
	}
}

// NewReader returns a reader that decompresses r.
func NewReader(r io.Reader, algorithm Algorithm) (io.ReadCloser, error) {
	switch algorithm {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeData, "invalid gzip stream")
		}
		return gr, nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeData, "invalid zstd stream")
		}
		return dec.IOReadCloser(), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	default:
		return nil, vizerrors.Newf(vizerrors.ErrorTypeValidation, "unsupported compression algorithm: %s", algorithm)
	}
}

// Decompress decompresses data in memory.
func Decompress(data []byte, algorithm Algorithm) ([]byte, error) {
	r, err := NewReader(bytes.NewReader(data), algorithm)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeData, "decompression failed").
			WithDetail("algorithm", string(algorithm))
	}
	return out, nil
}

var extensions = map[Algorithm]string{
	Gzip:   ".gz",
	Snappy: ".sz",
	LZ4:    ".lz4",
	Zstd:   ".zst",
	S2:     ".s2",
}

// Extension returns the file suffix for algorithm, or "" for None.
func Extension(algorithm Algorithm) string {
	return extensions[algorithm]
}

// FromExtension returns the algorithm implied by path's final suffix, or
// None when the suffix names no codec.
func FromExtension(path string) Algorithm {
	ext := strings.ToLower(filepath.Ext(path))
	for alg, e := range extensions {
		if e == ext {
			return alg
		}
	}
	return None
}

// TrimExtension removes a codec suffix from path, if present.
func TrimExtension(path string) string {
	if FromExtension(path) == None {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// zstd encoders are expensive to build; finished writers return theirs to
// a per-level pool.
var zstdPools sync.Map // zstd.EncoderLevel -> *sync.Pool

func zstdPool(level zstd.EncoderLevel) *sync.Pool {
	if p, ok := zstdPools.Load(level); ok {
		return p.(*sync.Pool)
	}
	p, _ := zstdPools.LoadOrStore(level, &sync.Pool{
		New: func() interface{} {
			enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
			return enc
		},
	})
	return p.(*sync.Pool)
}

type zstdWriter struct {
	enc  *zstd.Encoder
	pool *sync.Pool
}

func newZstdWriter(w io.Writer, level Level) *zstdWriter {
	pool := zstdPool(mapZstdLevel(level))
	enc := pool.Get().(*zstd.Encoder)
	enc.Reset(w)
	return &zstdWriter{enc: enc, pool: pool}
}

func (z *zstdWriter) Write(p []byte) (int, error) {
	if z.enc == nil {
		return 0, io.ErrClosedPipe
	}
	return z.enc.Write(p)
}

func (z *zstdWriter) Close() error {
	if z.enc == nil {
		return nil
	}
	err := z.enc.Close()
	z.enc.Reset(nil)
	z.pool.Put(z.enc)
	z.enc = nil
	return err
}

// Helper functions to map compression levels

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func mapS2Level(level Level) []s2.WriterOption {
	switch level {
	case Better:
		return []s2.WriterOption{s2.WriterBetterCompression()}
	case Best:
		return []s2.WriterOption{s2.WriterBestCompression()}
	default:
		return nil
	}
}
