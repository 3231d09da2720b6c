package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/pdbcat/internal/config"
	"github.com/mvp-joe/pdbcat/internal/peversion"
	"github.com/mvp-joe/pdbcat/internal/pipeline"
	"github.com/mvp-joe/pdbcat/internal/toolexec"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// Shared fixtures for command tests. Commands run against an in-memory
// project rooted at /proj with default configuration.

const testRoot = "/proj"

type fakeVersions map[string]string

func (f fakeVersions) Query(path string) (string, error) {
	v, ok := f[filepath.ToSlash(path)]
	if !ok {
		return "", fmt.Errorf("%w: %s", peversion.ErrNoVersion, path)
	}
	return v, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testProject(t *testing.T) *project {
	t.Helper()
	return &project{
		rootDir: filepath.FromSlash(testRoot),
		cfg:     config.Default(),
		logger:  quietLogger(),
		fs:      afero.NewMemMapFs(),
	}
}

// fakePdbex answers dump invocations by creating their output and list
// invocations with the types registered for the symbol file.
func fakePdbex(fs afero.Fs, types map[string]string) func(name string, args []string) (string, error) {
	return func(name string, args []string) (string, error) {
		if len(args) >= 4 && args[2] == "-o" {
			if args[0] == "%" {
				return "", fs.MkdirAll(args[3], 0755)
			}
			return "", afero.WriteFile(fs, args[3], []byte("// generated"), 0644)
		}
		return types[filepath.ToSlash(args[1])], nil
	}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, filepath.FromSlash(path), []byte(content), 0644))
}

func testDeps(proj *project, runner *toolexec.MockRunner, versions fakeVersions) pipeline.Deps {
	return pipeline.Deps{
		Runner:   runner,
		Fs:       proj.fs,
		Versions: versions,
		Progress: &pipeline.NoOpProgressReporter{},
		Logger:   proj.logger,
	}
}
