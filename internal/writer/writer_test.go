package writer

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkdown/murkdown/internal/artifact"
)

func TestPrepareCreatesOutputAndAssetsDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := New(fs, "dist")

	require.NoError(t, w.Prepare())

	ok, err := afero.DirExists(fs, "dist/assets")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWriteDocumentWritesBytesAtRelPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := New(fs, "dist")
	require.NoError(t, w.Prepare())

	a := &artifact.Artifact{Name: "index", MediaType: "html", Bytes: []byte("<html></html>")}
	require.NoError(t, w.WriteDocument("index.html", a))

	got, err := afero.ReadFile(fs, "dist/index.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(got))
}

func TestWriteDocumentCreatesNestedParents(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := New(fs, "dist")
	require.NoError(t, w.Prepare())

	a := &artifact.Artifact{Name: "guide", Bytes: []byte("hi")}
	require.NoError(t, w.WriteDocument("docs/guide/index.html", a))

	ok, err := afero.Exists(fs, "dist/docs/guide/index.html")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWriteAssetFromBytes(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := New(fs, "dist")
	require.NoError(t, w.Prepare())

	a := &artifact.Artifact{Name: "logo.png", Bytes: []byte{0x89, 0x50, 0x4e, 0x47}}
	rel, err := w.WriteAsset(a)
	require.NoError(t, err)
	assert.Equal(t, "assets/logo.png", rel)

	got, err := afero.ReadFile(fs, "dist/assets/logo.png")
	require.NoError(t, err)
	assert.Equal(t, a.Bytes, got)
}

func TestWriteAssetFromDisk(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := New(fs, "dist")
	require.NoError(t, w.Prepare())

	require.NoError(t, afero.WriteFile(fs, "src/diagram.svg", []byte("<svg/>"), 0o644))

	a := &artifact.Artifact{Name: "diagram.svg", PathOnDisk: "src/diagram.svg"}
	rel, err := w.WriteAsset(a)
	require.NoError(t, err)
	assert.Equal(t, "assets/diagram.svg", rel)

	got, err := afero.ReadFile(fs, "dist/assets/diagram.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(got))
}

func TestWriteAssetRejectsEmptyArtifact(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := New(fs, "dist")
	require.NoError(t, w.Prepare())

	_, err := w.WriteAsset(&artifact.Artifact{Name: "nothing"})
	assert.Error(t, err)
}
