package toolexec

// Test Plan for Runner:
// - SplitLines handles LF, CRLF, trailing newline and empty input
// - SplitLines keeps every line after an oversized one
// - ExecRunner.Output returns combined output even when the tool fails
// - ExecRunner.Output returns no lines when the tool cannot be started
// - ExecRunner.Run returns stdout on success
// - ExecRunner.Run returns *ExitError with code and stderr on failure
// - ExecRunner.Run honours the per-invocation timeout and reports it as a deadline
// - MockRunner records calls and filters Run calls by argument

import (
	"context"
	"errors"
	"io"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single line no newline", input: "a", want: []string{"a"}},
		{name: "trailing newline", input: "a\nb\n", want: []string{"a", "b"}},
		{name: "crlf", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "blank line preserved", input: "a\n\nb", want: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.input))
		})
	}
}

func TestSplitLines_OversizedLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 5*1024*1024)
	input := "SYMCHK: ImageName: C:\\Bin\\a.dll\r\n" + long + "\r\nDBGHELP: PDB: \"C:\\Sym\\a.pdb\"\r\n"

	lines := SplitLines(input)

	require.Len(t, lines, 3)
	assert.Len(t, lines[1], len(long))
	assert.Equal(t, `DBGHELP: PDB: "C:\Sym\a.pdb"`, lines[2])
}

func TestExitError_Message(t *testing.T) {
	t.Parallel()

	err := &ExitError{Name: "pdbex.exe", Code: 2, Stderr: "  bad pdb\n"}
	assert.Equal(t, "pdbex.exe exited with code 2: bad pdb", err.Error())

	err = &ExitError{Name: "pdbex.exe", Code: 1}
	assert.Equal(t, "pdbex.exe exited with code 1", err.Error())
}

func TestExecRunner_OutputToleratesFailure(t *testing.T) {
	skipWithoutShell(t)

	r := NewExecRunner("", 0, quietLogger())
	lines := r.Output(context.Background(), "sh", "-c", "echo out; echo err 1>&2; exit 3")

	assert.ElementsMatch(t, []string{"out", "err"}, lines)
}

func TestExecRunner_OutputMissingBinary(t *testing.T) {
	t.Parallel()

	r := NewExecRunner("", 0, quietLogger())
	lines := r.Output(context.Background(), "definitely-not-a-real-tool-xyz")

	assert.Empty(t, lines)
}

func TestExecRunner_RunSuccess(t *testing.T) {
	skipWithoutShell(t)

	r := NewExecRunner("", 0, quietLogger())
	out, err := r.Run(context.Background(), "sh", "-c", "echo 'struct _FOO;'; echo noise 1>&2")

	require.NoError(t, err)
	assert.Equal(t, "struct _FOO;\n", out)
}

func TestExecRunner_RunFailure(t *testing.T) {
	skipWithoutShell(t)

	r := NewExecRunner("", 0, quietLogger())
	_, err := r.Run(context.Background(), "sh", "-c", "echo broken 1>&2; exit 4")

	require.Error(t, err)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 4, exitErr.Code)
	assert.Contains(t, exitErr.Stderr, "broken")
}

func TestExecRunner_RunTimeout(t *testing.T) {
	skipWithoutShell(t)

	r := NewExecRunner("", 50*time.Millisecond, quietLogger())
	_, err := r.Run(context.Background(), "sh", "-c", "sleep 5")

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestMockRunner_RecordsCalls(t *testing.T) {
	t.Parallel()

	m := NewMockRunner("line1\nline2\n")
	lines := m.Output(context.Background(), "symchk.exe", "/r", "Bin")
	_, err := m.Run(context.Background(), "pdbex.exe", "*", "a.pdb", "-l-")
	require.NoError(t, err)

	assert.Equal(t, []string{"line1", "line2"}, lines)
	require.Len(t, m.Calls, 2)
	assert.Equal(t, "Output", m.Calls[0].Method)
	assert.Equal(t, "Run", m.Calls[1].Method)
	assert.Len(t, m.RunCalls("-l-"), 1)
	assert.Equal(t, "pdbex.exe", m.RunCalls("-l-")[0].Name)
	assert.Empty(t, m.RunCalls("/r"), "Output calls are not Run calls")
}
