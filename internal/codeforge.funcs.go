package internal

import (
	"runtime"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Formatter holds the layout settings shared by the template helpers.
// All methods are pure; a Formatter can be copied and used concurrently.
type Formatter struct {
	Indent     string
	LineEnding string
	Language   language.Tag
}

// NewFormatter creates a Formatter, falling back to the defaults for empty
// values.
func NewFormatter(indent, lineEnding string, lang language.Tag) Formatter {
	if indent == "" {
		indent = DefaultIndent
	}
	if lineEnding == "" {
		lineEnding = PlatformLineEnding()
	}
	return Formatter{
		Indent:     indent,
		LineEnding: lineEnding,
		Language:   lang,
	}
}

// PlatformLineEnding returns the line terminator of the host platform.
func PlatformLineEnding() string {
	if runtime.GOOS == GOOSWindows {
		return LineEndingWindows
	}
	return LineEndingUnix
}

// Newline returns the line terminator.
func (f Formatter) Newline() string {
	return f.LineEnding
}

// Tab returns a single indent unit.
func (f Formatter) Tab() string {
	return f.Indent
}

// Tabs returns count indent units. Negative counts yield no indentation.
func (f Formatter) Tabs(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.Repeat(f.Indent, count)
}

// WriteLine returns count indent units, text and the line terminator.
func (f Formatter) WriteLine(count int, text string) string {
	return f.Tabs(count) + text + f.LineEnding
}

// WriteLinef is WriteLine with positional substitution applied to format.
func (f Formatter) WriteLinef(count int, format string, args ...string) (string, error) {
	text, err := FormatPositional(format, args)
	if err != nil {
		return "", err
	}
	return f.WriteLine(count, text), nil
}

// TitleCase lower-cases text and then title-cases it for the formatter's
// language.
func (f Formatter) TitleCase(text string) string {
	return cases.Title(f.Language).String(strings.ToLower(text))
}

// Escape returns the marker that lets authors emit a literal template
// delimiter: {{ escape() }}{ x }} renders as {{ x }}.
func Escape() string {
	return EscapeMarker
}

// Raw returns text unchanged.
func Raw(text string) string {
	return text
}
