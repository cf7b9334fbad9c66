package codeforge

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		desc    *TemplateDescriptor
		wantErr string
	}{
		{"nil", nil, ErrMsgDescriptorNil},
		{"no source", &TemplateDescriptor{}, ErrMsgDescriptorNoSource},
		{"include mismatch", &TemplateDescriptor{SourceText: "x", IncludeFiles: []string{"a"}}, ErrMsgIncludeCountMismatch},
		{"text only", &TemplateDescriptor{SourceText: "x"}, ""},
		{"path with empty body", &TemplateDescriptor{SourcePath: "empty.cft"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsDescriptorError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTemplateDescriptor_AssembleSource(t *testing.T) {
	desc := &TemplateDescriptor{
		SourceText:      "body",
		IncludeFiles:    []string{"a", "b", "c"},
		IncludeContents: []string{"A|", "B|", "C|"},
	}
	assert.Equal(t, "A|B|C|body", desc.AssembleSource())

	assert.Equal(t, "body", (&TemplateDescriptor{SourceText: "body"}).AssembleSource())
}

func TestTemplateDescriptor_Name(t *testing.T) {
	assert.Equal(t, "entity.cft", (&TemplateDescriptor{SourcePath: "entity.cft", SourceText: "x"}).Name())
	assert.Equal(t, InlineName("x"), (&TemplateDescriptor{SourceText: "x"}).Name())
}

func TestParseDescriptor(t *testing.T) {
	base := filepath.Join("templates", "entity.cft")

	t.Run("frontmatter", func(t *testing.T) {
		doc := "---\n" +
			"output: ../gen/entity.go\n" +
			"header: true\n" +
			"includes:\n" +
			"  - macros.cft\n" +
			"  - /abs/common.cft\n" +
			"input_folder: partials\n" +
			"---\n" +
			"package gen\n"

		got, err := ParseDescriptor(base, []byte(doc))
		require.NoError(t, err)

		want := &TemplateDescriptor{
			SourcePath:   base,
			SourceText:   "package gen\n",
			IncludeFiles: []string{filepath.Join("templates", "macros.cft"), "/abs/common.cft"},
			OutputPath:   filepath.Join("gen", "entity.go"),
			Header:       true,
			InputFolder:  filepath.Join("templates", "partials"),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ParseDescriptor() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no frontmatter", func(t *testing.T) {
		got, err := ParseDescriptor(base, []byte("Hello {{ name }}"))
		require.NoError(t, err)
		assert.Equal(t, "Hello {{ name }}", got.SourceText)
		assert.False(t, got.Header)
		assert.Empty(t, got.OutputPath)
	})

	t.Run("crlf and bom", func(t *testing.T) {
		got, err := ParseDescriptor(base, []byte("\xef\xbb\xbf---\r\nheader: true\r\n---\r\nbody"))
		require.NoError(t, err)
		assert.True(t, got.Header)
		assert.Equal(t, "body", got.SourceText)
	})

	t.Run("empty frontmatter", func(t *testing.T) {
		got, err := ParseDescriptor(base, []byte("---\n---\nbody"))
		require.NoError(t, err)
		assert.Equal(t, "body", got.SourceText)
	})

	t.Run("comment-only frontmatter", func(t *testing.T) {
		got, err := ParseDescriptor(base, []byte("---\n# nothing\n---\nbody"))
		require.NoError(t, err)
		assert.Equal(t, "body", got.SourceText)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := ParseDescriptor(base, []byte("---\noutput: a\nmodel: User\n---\nbody"))
		require.Error(t, err)
		assert.True(t, IsDescriptorError(err))
		assert.Equal(t, "model", metadata(t, err, MetaKeyFrontmatter))
	})

	t.Run("misspelled key suggests the known one", func(t *testing.T) {
		_, err := ParseDescriptor(base, []byte("---\nheadr: true\n---\nbody"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown frontmatter key 'headr'. Did you mean 'header'?")
	})

	t.Run("unclosed", func(t *testing.T) {
		_, err := ParseDescriptor(base, []byte("---\noutput: a\nbody"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgFrontmatterUnclosed)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseDescriptor(base, []byte("---\nheader: [\n---\nbody"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgFrontmatterParse)
	})

	t.Run("wrong value type", func(t *testing.T) {
		_, err := ParseDescriptor(base, []byte("---\nheader: sometimes\n---\nbody"))
		require.Error(t, err)
		assert.True(t, IsDescriptorError(err))
	})

	t.Run("too large", func(t *testing.T) {
		doc := "---\n# " + strings.Repeat("x", DefaultMaxFrontmatterSize) + "\n---\nbody"
		_, err := ParseDescriptor(base, []byte(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgFrontmatterTooLarge)
	})
}

func TestLoadDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inc/a.cft", "{% macro greet(n) %}Hi {{ n }}{% endmacro %}")
	writeFile(t, dir, "inc/b.cft", "B|")
	path := writeFile(t, dir, "main.cft", "---\nincludes: [inc/a.cft, inc/b.cft]\noutput: out/main.txt\n---\n{{ greet(name) }}")

	desc, err := LoadDescriptor(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "inc/a.cft"), filepath.Join(dir, "inc/b.cft")}, desc.IncludeFiles)
	require.Len(t, desc.IncludeContents, 2)
	assert.Equal(t, "B|", desc.IncludeContents[1])
	assert.Equal(t, filepath.Join(dir, "out", "main.txt"), desc.OutputPath)

	t.Run("renders with includes", func(t *testing.T) {
		out, err := newTestEngine(t).RenderDescriptor(desc, map[string]any{"name": "Ann"})
		require.NoError(t, err)
		assert.Equal(t, "B|Hi Ann", out)
	})

	t.Run("missing include", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.cft", "---\nincludes: [nope.cft]\n---\nx")
		_, err := LoadDescriptor(bad)
		require.Error(t, err)
		assert.True(t, IsDescriptorError(err))
		assert.Equal(t, filepath.Join(dir, "nope.cft"), metadata(t, err, MetaKeyInclude))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDescriptor(filepath.Join(dir, "absent.cft"))
		require.Error(t, err)
		assert.True(t, IsDescriptorError(err))
	})
}

func TestLoadDescriptorFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, &StoredSource{Name: "shared/header.cft", Content: "// {{ name }}\n"}))
	require.NoError(t, store.Save(ctx, &StoredSource{
		Name:    "entity.cft",
		Content: "---\nincludes: [shared/header.cft]\noutput: gen/entity.go\nheader: true\n---\ntype {{ name }} struct{}",
	}))

	desc, err := LoadDescriptorFromStore(ctx, store, "entity.cft")
	require.NoError(t, err)
	assert.Equal(t, "entity.cft", desc.SourcePath)
	assert.Equal(t, "gen/entity.go", desc.OutputPath)
	assert.True(t, desc.Header)
	assert.Equal(t, []string{"shared/header.cft"}, desc.IncludeFiles)
	assert.Equal(t, "// {{ name }}\ntype {{ name }} struct{}", desc.AssembleSource())

	t.Run("missing source", func(t *testing.T) {
		_, err := LoadDescriptorFromStore(ctx, store, "absent.cft")
		require.Error(t, err)
		assert.True(t, IsSourceNotFoundError(err))
	})

	t.Run("missing include", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &StoredSource{Name: "broken.cft", Content: "---\nincludes: [nope]\n---\nx"}))
		_, err := LoadDescriptorFromStore(ctx, store, "broken.cft")
		require.Error(t, err)
		assert.True(t, IsDescriptorError(err))
		assert.True(t, IsSourceNotFoundError(err))
	})
}
