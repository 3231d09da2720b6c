package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mvp-joe/pdbcat/internal/pdbex"
	"github.com/mvp-joe/pdbcat/internal/pipeline"
	"github.com/mvp-joe/pdbcat/internal/symchk"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ pipeline.ProgressReporter = (*CLIProgressReporter)(nil)

func drive(r *CLIProgressReporter, generated, skipped int) {
	a := symchk.Association{BinaryPath: `C:\Bin\Win10\x64\System32\ntdll.dll`, SymbolPath: `C:\Sym\ntdll.pdb`}
	r.OnResolveStart()
	r.OnResolveComplete(1, 1234)
	r.OnAssociationStart(0, 1, a)
	r.OnSymbolCopied(a.SymbolPath, "/w/PDB/ntdll.dll.pdb")
	for i := 0; i < generated; i++ {
		r.OnArtifact(pdbex.Result{Artifact: pdbex.All})
	}
	for i := 0; i < skipped; i++ {
		r.OnArtifact(pdbex.Result{Artifact: pdbex.Standalone, Skipped: true})
	}
	r.OnTypesListed(2, 2)
	r.OnAssociationComplete(a)
	r.OnComplete(&pipeline.Stats{
		Associations:   1,
		Filenames:      1,
		Versions:       1,
		Types:          12345,
		DescriptorPath: "/w/descriptor.json",
	})
}

func TestCLIProgressReporter_Summary(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	drive(NewCLIProgressReporter(&out, false), 3, 1)

	text := out.String()
	assert.Contains(t, text, "Resolving symbol files with symchk...")
	assert.Contains(t, text, "Found 1 symbol files (1,234 ignored)")
	assert.Contains(t, text, "Catalog complete: 1 symbol files")
	assert.Contains(t, text, "Headers:   3 generated, 1 already present")
	assert.Equal(t, 3, strings.Count(text, `  Created "ALL.h"`))
	assert.Contains(t, text, `  "Standalone\*.h" already exists, skipping`)
	assert.Contains(t, text, "Types:     12,345")
	assert.Contains(t, text, "Written:   /w/descriptor.json")
}

func TestCLIProgressReporter_ResetsBetweenRuns(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewCLIProgressReporter(&out, false)
	drive(r, 4, 0)
	out.Reset()
	drive(r, 0, 4)

	assert.Contains(t, out.String(), "Headers:   0 generated, 4 already present")
}

func TestCLIProgressReporter_Quiet(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	drive(NewCLIProgressReporter(&out, true), 4, 0)
	assert.Empty(t, out.String())
}

func TestCLIProgressReporter_NoAssociations(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewCLIProgressReporter(&out, false)
	r.OnResolveStart()
	r.OnResolveComplete(0, 0)
	r.OnComplete(&pipeline.Stats{DescriptorPath: "/w/descriptor.json"})

	assert.Contains(t, out.String(), "Found 0 symbol files\n")
	assert.Contains(t, out.String(), "Catalog complete: 0 symbol files")
}

func TestArtifactLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ALL_SORTED.h", artifactLabel(pdbex.AllSorted))
	assert.Equal(t, `Standalone\*.h`, artifactLabel(pdbex.Standalone))
}

func TestBinaryName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ntdll.dll", binaryName(`C:\Bin\Win10\x64\System32\ntdll.dll`))
	assert.Equal(t, "drv.sys", binaryName("/bin/Win10/x64/System32/drivers/drv.sys"))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	l, err := newLogger("warn", false, &out)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l, err = newLogger("warn", true, &out)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.Debug("hello")
	assert.Contains(t, out.String(), "hello")

	_, err = newLogger("loud", false, &out)
	assert.Error(t, err)
}
