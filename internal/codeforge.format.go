package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FormatError is returned when a format string asks for an argument that was
// not supplied.
type FormatError struct {
	Message  string
	Format   string
	Metadata map[string]string
}

// NewFormatError creates a new format error for the given format string.
func NewFormatError(message, format string) *FormatError {
	return &FormatError{
		Message:  message,
		Format:   format,
		Metadata: make(map[string]string),
	}
}

// WithMetadata adds a metadata key-value pair and returns the error for chaining.
func (e *FormatError) WithMetadata(key, value string) *FormatError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	base := fmt.Sprintf(ErrFmtFormatMessage, e.Message, e.Format)
	keys := make([]string, 0, len(e.Metadata))
	for k := range e.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		base += fmt.Sprintf(ErrFmtFormatMetadataKey, k, e.Metadata[k])
	}
	return base
}

// FormatPositional replaces {N} placeholders with args[N].
//
// "{{" and "}}" emit a single literal brace. Any other brace that does not
// open a numeric placeholder is copied through, so generated code such as
// "func main() {" needs no escaping.
func FormatPositional(format string, args []string) (string, error) {
	if !strings.ContainsAny(format, "{}") {
		return format, nil
	}

	var b strings.Builder
	b.Grow(len(format))

	for i := 0; i < len(format); i++ {
		c := format[i]
		switch c {
		case PlaceholderOpen:
			if i+1 < len(format) && format[i+1] == PlaceholderOpen {
				b.WriteByte(PlaceholderOpen)
				i++
				continue
			}
			end, index, ok := scanPlaceholder(format, i)
			if !ok {
				b.WriteByte(c)
				continue
			}
			if index >= len(args) {
				return "", NewFormatError(ErrMsgFormatArguments, format).
					WithMetadata(MetaKeyPlaceholder, format[i:end+1]).
					WithMetadata(MetaKeyArgCount, strconv.Itoa(len(args)))
			}
			b.WriteString(args[index])
			i = end
		case PlaceholderClose:
			if i+1 < len(format) && format[i+1] == PlaceholderClose {
				i++
			}
			b.WriteByte(PlaceholderClose)
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}

// scanPlaceholder reports whether format[start:] begins with {digits}.
// It returns the index of the closing brace and the parsed index.
func scanPlaceholder(format string, start int) (end int, index int, ok bool) {
	j := start + 1
	for j < len(format) && format[j] >= '0' && format[j] <= '9' {
		j++
	}
	if j == start+1 || j >= len(format) || format[j] != PlaceholderClose {
		return 0, 0, false
	}
	n, err := strconv.Atoi(format[start+1 : j])
	if err != nil {
		return 0, 0, false
	}
	return j, n, true
}
