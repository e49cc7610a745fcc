package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DocumentSuite is a testify suite whose tests read and write container
// documents under one workspace directory, recreated for every test.
type DocumentSuite struct {
	suite.Suite
	workspace string
}

// SetupTest gives each test a fresh workspace.
func (s *DocumentSuite) SetupTest() {
	s.workspace = s.T().TempDir()
}

// Path returns elem joined under the workspace.
func (s *DocumentSuite) Path(elem ...string) string {
	return filepath.Join(append([]string{s.workspace}, elem...)...)
}

// WriteDocument stores content at the workspace-relative name, creating
// parent directories, and returns the full path.
func (s *DocumentSuite) WriteDocument(name, content string) string {
	path := s.Path(name)
	require.NoError(s.T(), os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(s.T(), os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ReadOutput returns the bytes of a file the code under test produced.
func (s *DocumentSuite) ReadOutput(elem ...string) []byte {
	raw, err := os.ReadFile(s.Path(elem...))
	require.NoError(s.T(), err)
	return raw
}

// Integration skips t in -short mode.
func Integration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}
}
