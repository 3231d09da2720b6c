package descriptor

// Test Plan for descriptor persistence:
// - Write produces sorted keys, four-space indentation and a trailing newline
// - Write does not HTML-escape type names
// - Write encodes empty catalogs as []
// - Write overwrites an existing descriptor and leaves no temp files
// - Write creates the output directory
// - Read round-trips what Write produced and rejects invalid JSON

import (
	"testing"

	"github.com/mvp-joe/pdbcat/internal/catalog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_Format(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	d := catalog.NewDescriptor()
	d.AddFilename("ntdll.dll")
	d.AddVersion("Win10", "x64", "10.0.19041.1")

	require.NoError(t, Write(fs, "/out/descriptor.json", d.Document()))

	data, err := afero.ReadFile(fs, "/out/descriptor.json")
	require.NoError(t, err)

	want := `{
    "filename": [
        {
            "key": "ntdll.dll",
            "text": "ntdll.dll",
            "value": "ntdll.dll"
        }
    ],
    "type": [
        {
            "key": "ALL",
            "text": "ALL",
            "value": "ALL"
        },
        {
            "key": "ALL_SORTED",
            "text": "ALL_SORTED",
            "value": "ALL_SORTED"
        },
        {
            "key": "ALL_FUNCTIONS",
            "text": "ALL_FUNCTIONS",
            "value": "ALL_FUNCTIONS"
        }
    ],
    "version": [
        {
            "key": "Win10/x64/System32",
            "text": "Win10-x64 (10.0.19041.1)",
            "value": "Win10/x64/System32"
        }
    ]
}
`
	assert.Equal(t, want, string(data))
}

func TestWrite_NoHTMLEscaping(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	d := catalog.NewDescriptor()
	d.AddType("<unnamed-tag>")

	require.NoError(t, Write(fs, "/out/descriptor.json", d.Document()))

	data, err := afero.ReadFile(fs, "/out/descriptor.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"text": "<unnamed-tag>"`)
}

func TestWrite_EmptyCatalogs(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, Write(fs, "/out/descriptor.json", catalog.Document{}))

	data, err := afero.ReadFile(fs, "/out/descriptor.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"filename": [], "type": [], "version": []}`, string(data))
}

func TestWrite_OverwritesAndCleansUp(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/descriptor.json", []byte("stale"), 0644))

	require.NoError(t, Write(fs, "/out/descriptor.json", catalog.NewDescriptor().Document()))

	doc, err := Read(fs, "/out/descriptor.json")
	require.NoError(t, err)
	assert.Len(t, doc.Type, 3)

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "descriptor.json", entries[0].Name())
}

func TestRead_RoundTripAndErrors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	d := catalog.NewDescriptor()
	d.AddType("_KPCR")
	d.AddFilename("hal.dll")
	require.NoError(t, Write(fs, "/deep/nested/out/descriptor.json", d.Document()))

	doc, err := Read(fs, "/deep/nested/out/descriptor.json")
	require.NoError(t, err)
	assert.Equal(t, d.Document(), doc)

	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte("{"), 0644))
	_, err = Read(fs, "/bad.json")
	assert.Error(t, err)

	_, err = Read(fs, "/missing.json")
	assert.Error(t, err)
}
