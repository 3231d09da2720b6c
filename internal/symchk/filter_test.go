package symchk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Apply(t *testing.T) {
	t.Parallel()

	f, err := NewFilter(`C:\Bin`, []string{"**/*.mui", "win7/**"})
	require.NoError(t, err)

	in := []Association{
		{BinaryPath: `C:\Bin\Win10\x64\System32\ntdll.dll`, SymbolPath: "a.pdb"},
		{BinaryPath: `C:\Bin\Win10\x64\System32\en-US\ntdll.dll.MUI`, SymbolPath: "b.pdb"},
		{BinaryPath: `C:\Bin\Win7\x86\System32\kernel32.dll`, SymbolPath: "c.pdb"},
		{BinaryPath: `C:\Bin\Win11\x64\System32\drivers\tcpip.sys`, SymbolPath: "d.pdb"},
	}

	got := f.Apply(in)
	require.Len(t, got, 2)
	assert.Equal(t, "a.pdb", got[0].SymbolPath)
	assert.Equal(t, "d.pdb", got[1].SymbolPath)
}

func TestFilter_NoPatternsKeepsEverything(t *testing.T) {
	t.Parallel()

	f, err := NewFilter("Bin", nil)
	require.NoError(t, err)

	in := []Association{{BinaryPath: "Bin/a.dll", SymbolPath: "a.pdb"}}
	assert.Equal(t, in, f.Apply(in))
}

func TestNewFilter_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFilter("Bin", []string{"[unterminated"})
	assert.Error(t, err)
}
