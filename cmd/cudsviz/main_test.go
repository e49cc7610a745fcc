package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/cudsviz/pkg/compression"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

const tetraYAML = `
kind: mesh
name: tetra
points:
  - coordinates: [0, 0, 0]
    data: {TEMPERATURE: 1.0}
  - coordinates: [1, 0, 0]
    data: {TEMPERATURE: 2.0}
  - coordinates: [0, 1, 0]
    data: {TEMPERATURE: 3.0}
  - coordinates: [0, 0, 1]
    data: {TEMPERATURE: 4.0}
cells:
  - points: [0, 1, 2, 3]
`

const gasJSON = `{
  "kind": "particles",
  "name": "gas",
  "particles": [
    {"coordinates": [0, 0, 0], "data": {"TEMPERATURE": 10.0}},
    {"coordinates": [2, 0, 0], "data": {"TEMPERATURE": 20.0}}
  ],
  "bonds": [{"particles": [0, 1]}]
}`

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cudsviz v"+version)
}

func TestKeys(t *testing.T) {
	out, err := run(t, "keys")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "KEY"))
	assert.Contains(t, out, "TEMPERATURE")
	assert.NotContains(t, out, "DESCRIPTION")

	all, err := run(t, "keys", "--all")
	require.NoError(t, err)
	assert.Contains(t, all, "DESCRIPTION")
}

func TestConvertCompressed(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "tetra.yaml", tetraYAML)
	target := filepath.Join(dir, "out", "tetra.vtk.gz")

	out, err := run(t, "convert", doc, "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "unstructured_grid, 4 points, 1 cells")

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	plain, err := compression.Decompress(raw, compression.Gzip)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(plain), "# vtk DataFile Version 3.0"))
	assert.Contains(t, string(plain), "TEMPERATURE")
}

func TestConvertDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "gas.json", gasJSON)

	_, err := run(t, "convert", doc)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "gas.vtk"))
}

func TestConvertCompressedDocument(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "tetra.yaml.gz")
	var buf bytes.Buffer
	w, err := compression.NewWriter(&buf, &compression.Config{Algorithm: compression.Gzip})
	require.NoError(t, err)
	_, err = io.WriteString(w, tetraYAML)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(doc, buf.Bytes(), 0o644))

	out, err := run(t, "convert", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "unstructured_grid, 4 points, 1 cells")
	assert.FileExists(t, filepath.Join(dir, "tetra.vtk"))
}

func TestConvertInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "bad.yaml", "kind: sphere\n")

	_, err := run(t, "convert", doc)
	require.Error(t, err)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeValidation), err.Error())
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "vtk")
	docs := []string{
		writeDoc(t, dir, "tetra.yaml", tetraYAML),
		writeDoc(t, dir, "gas.json", gasJSON),
	}

	out, err := run(t, append([]string{"batch", "--out-dir", outDir, "--workers", "2"}, docs...)...)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "ok   "))
	assert.FileExists(t, filepath.Join(outDir, "tetra.vtk"))
	assert.FileExists(t, filepath.Join(outDir, "gas.vtk"))
}

func TestBatchPartialFailure(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "vtk")
	good := writeDoc(t, dir, "tetra.yaml", tetraYAML)
	bad := writeDoc(t, dir, "broken.yaml", "kind: [\n")

	out, err := run(t, "batch", "--out-dir", outDir, good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job broken")
	assert.Contains(t, out, "FAIL "+bad)
	assert.FileExists(t, filepath.Join(outDir, "tetra.vtk"))
	assert.NoFileExists(t, filepath.Join(outDir, "broken.vtk"))
}

func TestBatchRejectsCollidingOutputs(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "vtk")
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, sub), 0o755))
	}
	first := writeDoc(t, dir, filepath.Join("a", "run.yaml"), tetraYAML)
	second := writeDoc(t, dir, filepath.Join("b", "run.json"), gasJSON)

	out, err := run(t, "batch", "--out-dir", outDir, first, second)
	require.Error(t, err)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeValidation), err.Error())
	assert.NotContains(t, out, "ok   ")
	assert.NoDirExists(t, outDir)
}

func TestInspectJSON(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "tetra.yaml", tetraYAML)

	out, err := run(t, "inspect", doc, "--json")
	require.NoError(t, err)

	var s Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "tetra", s.Container)
	assert.Equal(t, "mesh", s.Kind)
	assert.Equal(t, 4, s.Points)
	assert.Equal(t, 1, s.Cells)
	assert.Equal(t, [3]float64{1, 1, 1}, s.BoundsMax)
	assert.Equal(t, "Surface", s.Representation)
	require.Len(t, s.Columns, 1)
	assert.Equal(t, "TEMPERATURE", s.Columns[0].Key)
	assert.Equal(t, "point", s.Columns[0].Association)
	assert.Equal(t, [2]float64{1, 4}, s.Columns[0].Range)
}

func TestInspectPlot(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "gas.json", gasJSON)

	out, err := run(t, "inspect", doc, "--plot", "TEMPERATURE")
	require.NoError(t, err)
	assert.Contains(t, out, "Style:      Glyphs")
	assert.Contains(t, out, "TEMPERATURE (point data)")

	_, err = run(t, "inspect", doc, "--plot", "VELOCITY")
	require.Error(t, err)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeKeyNotFound), err.Error())
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "tetra.yaml", tetraYAML)

	out, err := run(t, "export", doc, "--format", "parquet")
	require.NoError(t, err)
	assert.Contains(t, out, "parquet, 4 rows")

	info, err := os.Stat(filepath.Join(dir, "tetra.point.parquet"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	target := filepath.Join(dir, "cells.avro")
	out, err = run(t, "export", doc, "--format", "avro", "--data", "cell", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "avro, 1 rows")
	assert.FileExists(t, target)
}

func TestExportInvalidFlags(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "tetra.yaml", tetraYAML)

	_, err := run(t, "export", doc, "--format", "csv")
	require.Error(t, err)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeValidation))

	_, err = run(t, "export", doc, "--format", "arrow", "--data", "edges")
	require.Error(t, err)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeValidation))
}
