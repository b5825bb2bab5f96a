package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdujack2012/remic/internal/todo"
	"github.com/sdujack2012/remic/internal/tree"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func items(t *testing.T, m tree.Map) []todo.Item {
	t.Helper()
	return todo.Items(tree.Map{"toDos": m})
}

func TestCollection_Shapes(t *testing.T) {
	want := []todo.Item{
		{Key: "1", Description: "Buy milk"},
		{Key: "2", Description: "Walk dog", IsFinished: true},
	}
	tests := []struct {
		name string
		doc  tree.Value
	}{
		{
			name: "list",
			doc: tree.List{
				tree.Map{"key": tree.Number(1), "description": tree.String("Buy milk")},
				tree.Map{"key": tree.String("2"), "description": tree.String("Walk dog"), "isFinished": tree.Bool(true)},
			},
		},
		{
			name: "keyed map",
			doc: tree.Map{
				"1": tree.Map{"description": tree.String("Buy milk")},
				"2": tree.Map{"description": tree.String("Walk dog"), "isFinished": tree.Bool(true)},
			},
		},
		{
			name: "nested under toDos",
			doc: tree.Map{"toDos": tree.Map{
				"1": tree.Map{"description": tree.String(" Buy milk ")},
				"2": tree.Map{"description": tree.String("Walk dog"), "isFinished": tree.Bool(true)},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collection(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, want, items(t, got))
		})
	}
}

func TestCollection_Rejects(t *testing.T) {
	tests := map[string]tree.Value{
		"scalar root":      tree.String("nope"),
		"list without key": tree.List{tree.Map{"description": tree.String("x")}},
		"list of scalars":  tree.List{tree.Number(1)},
		"map of scalars":   tree.Map{"1": tree.Bool(true)},
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Collection(doc)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	got, err := Collection(tree.Null{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFile_FetchYAMLAndTOML(t *testing.T) {
	yamlPath := writeFile(t, "todos.yaml", "toDos:\n  - key: 1\n    description: Buy milk\n")
	tomlPath := writeFile(t, "todos.toml", "[toDos.1]\ndescription = \"Buy milk\"\n")

	for _, path := range []string{yamlPath, tomlPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			src, err := NewFile(path, 0)
			require.NoError(t, err)

			got, err := src.Fetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []todo.Item{{Key: "1", Description: "Buy milk"}}, items(t, got))
		})
	}
}

func TestFile_MissingIsEmpty(t *testing.T) {
	src, err := NewFile(filepath.Join(t.TempDir(), "none.yaml"), 0)
	require.NoError(t, err)

	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFile_RejectsUnknownExtension(t *testing.T) {
	_, err := NewFile("todos.txt", 0)
	assert.Error(t, err)
}

func TestFile_DelayHonorsContext(t *testing.T) {
	src, err := NewFile(writeFile(t, "todos.json", `[]`), time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = src.Fetch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFile_DelayWaitsBeforeRead(t *testing.T) {
	path := writeFile(t, "todos.json", `[{"key":"1","description":"Buy milk"}]`)
	src, err := NewFile(path, 30*time.Millisecond)
	require.NoError(t, err)

	start := time.Now()
	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Len(t, got, 1)
}

func TestHTTP_Fetch(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/todos":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"toDos": [{"key": 3, "description": "remote", "isFinished": true}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	src, err := NewHTTP(server.URL + "/todos")
	require.NoError(t, err)

	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []todo.Item{{Key: "3", Description: "remote", IsFinished: true}}, items(t, got))
	assert.Equal(t, defaultUserAgent, gotUserAgent)

	missing, err := NewHTTP(server.URL + "/missing")
	require.NoError(t, err)
	_, err = missing.Fetch(context.Background())
	assert.Error(t, err, "404 is an error")
}

func TestParseEndpoint(t *testing.T) {
	u, err := parseEndpoint("  127.0.0.1:9000/todos#frag ")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/todos", u.String())

	_, err = parseEndpoint("")
	assert.Error(t, err)
}

func TestFile_SaveThenFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todos.yaml")
	src, err := NewFile(path, 0)
	require.NoError(t, err)

	want := []todo.Item{
		{Key: "4", Description: "saved", IsFinished: true},
		{Key: "4.5", Description: "dotted key"},
	}
	saved := tree.Map{}
	for _, it := range want {
		saved[it.Key] = it.Value()
	}
	require.NoError(t, src.Save(context.Background(), saved))

	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, items(t, got))

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".todos-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files left behind")
}
