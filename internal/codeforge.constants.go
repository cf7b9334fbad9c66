package internal

// Default formatting values
const (
	DefaultIndent     = "\t"
	LineEndingUnix    = "\n"
	LineEndingWindows = "\r\n"
	GOOSWindows       = "windows"
	EscapeMarker      = "{"
	PlaceholderOpen   = '{'
	PlaceholderClose  = '}'
)

// Template function names exposed to template bodies
const (
	FuncNameNewline   = "newline"
	FuncNameTab       = "tab"
	FuncNameWriteLine = "writeLine"
	FuncNameTitleCase = "titleCase"
	FuncNameEscape    = "escape"
	FuncNameRaw       = "raw"
	FuncNamePartial   = "partial"
)

// Error messages for formatting helpers
const (
	ErrMsgFormatArguments   = "not enough arguments for format string"
	ErrFmtFormatMessage     = "%s [ %s ]"
	ErrFmtFormatMetadataKey = " [%s=%s]"
)

// Metadata keys for formatting errors
const (
	MetaKeyFormat      = "format"
	MetaKeyPlaceholder = "placeholder"
	MetaKeyArgCount    = "arg_count"
)

// Suggestion settings
const (
	SuggestionPrefix      = ". Did you mean "
	MinSuggestionDistance = 2
	MaxSuggestions        = 3
)
