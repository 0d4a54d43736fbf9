package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/parser"
)

type memorySink struct {
	writes map[string][]byte
	calls  int
}

func (m *memorySink) WriteArtifact(_ context.Context, name string, data []byte) error {
	if m.writes == nil {
		m.writes = make(map[string][]byte)
	}
	m.writes[name] = data
	m.calls++
	return nil
}

func TestAccumulator_Record(t *testing.T) {
	idx := NewDependencyIndex("dependencies.json")

	assert.False(t, idx.Dirty())
	assert.True(t, RecordDependencies(idx, "UserService", []string{"Mailer", "Database"}, "a.ts"))
	assert.True(t, idx.Dirty())
	assert.False(t, RecordDependencies(idx, "UserService", []string{"Database", "Mailer"}, "a.ts"), "same value")
	assert.True(t, RecordDependencies(idx, "UserService", []string{"Database"}, "a.ts"), "changed value")

	entry, ok := idx.Get("UserService")
	require.True(t, ok)
	assert.Equal(t, []string{"Database"}, entry.Value)
	assert.Equal(t, 1, idx.Len())
}

func TestAccumulator_Flush(t *testing.T) {
	ctx := context.Background()
	idx := NewDependencyIndex("dependencies.json")
	sink := &memorySink{}

	wrote, err := idx.Flush(ctx, sink)
	require.NoError(t, err)
	assert.False(t, wrote, "clean accumulator")

	RecordDependencies(idx, "B", []string{"X"}, "b.ts")
	RecordDependencies(idx, "A", nil, "a.ts")
	wrote, err = idx.Flush(ctx, sink)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.False(t, idx.Dirty())
	assert.False(t, idx.FlushedAt().Before(idx.UpdatedAt()))
	assert.Equal(t, "{\n  \"A\": [],\n  \"B\": [\n    \"X\"\n  ]\n}\n", string(sink.writes["dependencies.json"]))

	wrote, err = idx.Flush(ctx, sink)
	require.NoError(t, err)
	assert.False(t, wrote, "nothing changed")

	// a change that renders to the same bytes is not written again
	RecordDependencies(idx, "B", []string{"Y"}, "b.ts")
	RecordDependencies(idx, "B", []string{"X"}, "b.ts")
	wrote, err = idx.Flush(ctx, sink)
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.False(t, idx.Dirty())
	assert.Equal(t, 1, sink.calls)
}

func TestAccumulator_FlushIsOrderIndependent(t *testing.T) {
	icons := []struct{ key, name string }{
		{"solid/home", "solid/home"},
		{"regular/user", "user"},
		{"brands/github", "brands/github"},
		{"solid/spinner-third", "solid/spinner-third"},
	}
	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}}

	var outputs []string
	for _, order := range orders {
		idx := NewIconIndex("icons.d.ts")
		for _, i := range order {
			idx.Record(icons[i].key, Icon{Name: icons[i].name}, "x.tsx")
		}
		sink := &memorySink{}
		_, err := idx.Flush(context.Background(), sink)
		require.NoError(t, err)
		outputs = append(outputs, string(sink.writes["icons.d.ts"]))
	}

	for _, out := range outputs[1:] {
		assert.Equal(t, outputs[0], out)
	}
	assert.Contains(t, outputs[0], "export type Icons =\n  | \"brands/github\"\n  | \"user\"\n  | \"solid/home\"\n")
}

func TestRenderIcons_Empty(t *testing.T) {
	data, err := renderIcons(nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), "export type Icons = never;")
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "generated")
	require.NoError(t, DirSink(dir).WriteArtifact(context.Background(), "icons.d.ts", []byte("x")))

	data, err := os.ReadFile(filepath.Join(dir, "icons.d.ts"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, DirSink(dir).WriteArtifact(ctx, "y", nil))
}

func collect(t *testing.T, src string) (*models.SourceFile, *IconIndex, int) {
	t.Helper()
	path := "/project/src/client/pages/a.tsx"
	prog, err := parser.Parse(path, []byte(src))
	require.NoError(t, err)
	f := models.NewSourceFile("/project", path, models.RouteFront, models.Client, []byte(src))
	f.Program = prog

	idx := NewIconIndex("icons.d.ts")
	n := (&IconCollector{Pack: "regular", Index: idx}).Collect(f)
	return f, idx, n
}

func TestIconCollector(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
		keys []string
	}{
		{
			name: "icon property",
			src:  "const item = { icon: \"solid/home\", label: \"Home\" };\n",
			want: "const item = { icon: \"solid-home\", label: \"Home\" };\n",
			keys: []string{"solid/home"},
		},
		{
			name: "marked string",
			src:  "const name = /* @icon */ \"user\";\n",
			want: "const name = /* @iconId */ \"user\";\n",
			keys: []string{"regular/user"},
		},
		{
			name: "icon attributes",
			src:  "const b = <Button icon=\"solid/check\" iconRight={open ? \"solid/up\" : \"solid/down\"} />;\n",
			want: "const b = <Button icon=\"solid-check\" iconRight={open ? \"solid-up\" : \"solid-down\"} />;\n",
			keys: []string{"solid/check", "solid/down", "solid/up"},
		},
		{
			name: "i element with static source",
			src:  "const i = <i src=\"brands/github\" />;\n",
			want: "const i = <i class=\"svg-brands-github\" />;\n",
			keys: []string{"brands/github"},
		},
		{
			name: "spinner",
			src:  "const i = <i src=\"spin\" />;\n",
			want: "const i = <i class=\"svg-solid-spinner-third spin\" />;\n",
			keys: []string{"solid/spinner-third"},
		},
		{
			name: "dynamic source keeps the class",
			src:  "const i = <i src={name} class=\"big\" title=\"x\" />;\n",
			want: "const i = <i title=\"x\" class={\"svg-\" + name + \" \" + \"big\"} />;\n",
		},
		{
			name: "i element without source",
			src:  "const i = <i class=\"x\">text</i>;\n",
			want: "const i = <i class=\"x\">text</i>;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, idx, _ := collect(t, tt.src)
			assert.Equal(t, tt.want, jsast.Print(f.Program))

			var keys []string
			for _, e := range idx.Entries() {
				keys = append(keys, e.Key)
			}
			assert.Equal(t, tt.keys, keys)
		})
	}
}

func TestIconCollector_Entry(t *testing.T) {
	_, idx, n := collect(t, "const a = { icon: \"solid/home\" };\nconst b = { icon: \"solid/home\" };\n")
	assert.Equal(t, 2, n)

	entry, ok := idx.Get("solid/home")
	require.True(t, ok)
	assert.Equal(t, Icon{ID: "solid-home", Name: "solid/home", File: "solid/home.svg"}, entry.Value)
	assert.Equal(t, "/project/src/client/pages/a.tsx", entry.Source)
}
