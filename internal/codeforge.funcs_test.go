package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewFormatter_Defaults(t *testing.T) {
	f := NewFormatter("", "", language.Und)

	assert.Equal(t, DefaultIndent, f.Tab())
	assert.Equal(t, PlatformLineEnding(), f.Newline())
}

func TestFormatter_WriteLine(t *testing.T) {
	f := NewFormatter("\t", "\n", language.Und)

	assert.Equal(t, "\t\tx\n", f.WriteLine(2, "x"))
	assert.Equal(t, "x\n", f.WriteLine(0, "x"))
	assert.Equal(t, "x\n", f.WriteLine(-3, "x"))
	assert.Equal(t, "\n", f.WriteLine(0, ""))
}

func TestFormatter_WriteLine_CustomIndent(t *testing.T) {
	f := NewFormatter("    ", "\r\n", language.Und)

	assert.Equal(t, "        return nil\r\n", f.WriteLine(2, "return nil"))
	assert.Equal(t, "    ", f.Tab())
	assert.Equal(t, "\r\n", f.Newline())
}

func TestFormatter_WriteLinef(t *testing.T) {
	f := NewFormatter("\t", "\n", language.Und)

	t.Run("substitutes arguments", func(t *testing.T) {
		got, err := f.WriteLinef(0, "Hi {0}", "World")
		require.NoError(t, err)
		assert.Equal(t, "Hi World\n", got)
	})

	t.Run("indents and substitutes", func(t *testing.T) {
		got, err := f.WriteLinef(1, "var {0} {1}", "id", "int")
		require.NoError(t, err)
		assert.Equal(t, "\tvar id int\n", got)
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := f.WriteLinef(0, "Hi {0}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Hi {0}")
	})

	t.Run("formats without arguments", func(t *testing.T) {
		got, err := f.WriteLinef(0, "map[string]struct{{}}")
		require.NoError(t, err)
		assert.Equal(t, "map[string]struct{}\n", got)
	})
}

func TestFormatter_TitleCase(t *testing.T) {
	f := NewFormatter("", "", language.English)

	tests := []struct {
		input    string
		expected string
	}{
		{"hello world", "Hello World"},
		{"HELLO WORLD", "Hello World"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.TitleCase(tt.input))
		})
	}
}

func TestEscapeAndRaw(t *testing.T) {
	assert.Equal(t, "{", Escape())
	assert.Equal(t, "{{ x }}", Raw("{{ x }}"))
}
