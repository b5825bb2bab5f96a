package statefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdujack2012/remic/internal/lens"
	"github.com/sdujack2012/remic/internal/tree"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"state.json", JSON},
		{"state.yaml", YAML},
		{"STATE.YML", YAML},
		{"dir/state.toml", TOML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatFor("state.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDecode_AllFormatsAgree(t *testing.T) {
	docs := map[Format]string{
		JSON: `{"toDos": {"1": {"description": "a", "isFinished": false}}, "loadingStatus": {"isLoadingToDos": true}}`,
		YAML: "toDos:\n  \"1\":\n    description: a\n    isFinished: false\nloadingStatus:\n  isLoadingToDos: true\n",
		TOML: "[toDos.1]\ndescription = \"a\"\nisFinished = false\n\n[loadingStatus]\nisLoadingToDos = true\n",
	}
	want := tree.Map{
		"toDos": tree.Map{"1": tree.Map{
			"description": tree.String("a"),
			"isFinished":  tree.Bool(false),
		}},
		"loadingStatus": tree.Map{"isLoadingToDos": tree.Bool(true)},
	}

	for format, doc := range docs {
		t.Run(string(format), func(t *testing.T) {
			got, err := Decode([]byte(doc), format)
			require.NoError(t, err)
			assert.True(t, tree.Equal(got, want), "Decode = %#v", got)
		})
	}
}

func TestDecode_InvalidDocument(t *testing.T) {
	for _, format := range []Format{JSON, YAML, TOML} {
		_, err := Decode([]byte("{{{"), format)
		assert.Error(t, err, "format %s", format)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	v := tree.Map{
		"count": tree.Number(3),
		"ratio": tree.Number(0.5),
		"tags":  tree.List{tree.String("x"), tree.String("y")},
		"nested": tree.Map{
			"ok": tree.Bool(true),
		},
	}

	for _, name := range []string{"s.json", "s.yaml", "s.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sub", name)
			require.NoError(t, Save(path, v))

			got, format, err := Load(path)
			require.NoError(t, err)
			want, _ := FormatFor(name)
			assert.Equal(t, want, format)
			assert.True(t, tree.Equal(got, v), "round trip = %#v", got)
		})
	}
}

func TestSave_WritesIntegersAsIntegers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, Save(path, lens.Write(nil, "a.b", tree.Number(2))))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"b": 2`)
}

func TestEncode_TOMLNeedsTable(t *testing.T) {
	_, err := Encode(tree.List{tree.Bool(true)}, TOML)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
