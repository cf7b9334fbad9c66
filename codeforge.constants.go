package codeforge

import "time"

// Generated-file banner lines, joined with the configured line ending.
var bannerLines = []string{
	"//------------------------------------------------------------------------------",
	"// <auto-generated>",
	"//     This code was generated from a template.",
	"//",
	"//     Manual changes to this file may cause unexpected behavior in your application.",
	"//     Manual changes to this file will be overwritten if the code is regenerated.",
	"// </auto-generated>",
	"//------------------------------------------------------------------------------",
}

// Inline diagnostics written into generated output by the partial resolver
const (
	PartialNotFoundPrefix    = "Partial file Not Found "
	PartialRenderErrorPrefix = "Partial Render Error"
	PartialDiagnosticNewline = "\n"
)

// Template context keys
const (
	ContextKeyModel = "model"
)

// Compiler source wrapping - generated code is never HTML-escaped
const (
	autoescapeOpen  = "{% autoescape off %}"
	autoescapeClose = "{% endautoescape %}"
)

// Template set name used for every compiler instance
const (
	TemplateSetName = "codeforge"
)

// Key kinds
const (
	KeyKindNameMain    = "main"
	KeyKindNamePartial = "partial"
	InlineKeyPrefix    = "inline:"
	InlineKeyHashLen   = 16
	NilModelTypeName   = "<nil>"
)

// YAML frontmatter constants
const (
	YAMLFrontmatterDelimiter  = "---"
	FrontmatterKeyOutput      = "output"
	FrontmatterKeyHeader      = "header"
	FrontmatterKeyIncludes    = "includes"
	FrontmatterKeyInputFolder = "input_folder"
	utf8BOM                   = "\xef\xbb\xbf"
)

// Default configuration values
const (
	DefaultMaxPartialDepth    = 10
	DefaultBatchConcurrency   = 1
	DefaultMaxFrontmatterSize = 64 * 1024 // 64KB
)

// Filesystem permissions
const (
	OutputDirPermissions  = 0o755
	OutputFilePermissions = 0o644
)

// Source store driver names
const (
	StoreDriverMemory     = "memory"
	StoreDriverFilesystem = "filesystem"
	StoreDriverPostgres   = "postgres"
)

// Source cache defaults
const (
	SourceCacheDefaultTTL         = 5 * time.Minute
	SourceCacheDefaultMaxEntries  = 1000
	SourceCacheDefaultNegativeTTL = 30 * time.Second
)

// PostgreSQL store defaults
const (
	PostgresDriverName             = "postgres"
	PostgresTableName              = "codeforge_sources"
	PostgresDefaultMaxOpenConns    = 10
	PostgresDefaultMaxIdleConns    = 2
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// Error message constants
const (
	// Compilation
	ErrMsgCompileFailed     = "template compilation failed"
	ErrMsgModelTypeMismatch = "model type does not match compiled template"
	ErrMsgNilArtifact       = "artifact cannot be nil"
	ErrMsgEmptyKeyName      = "template key name cannot be empty"

	// Rendering
	ErrMsgRenderFailed      = "template rendering failed"
	ErrFmtFormatArguments   = "params string input not enough : [ %s ]"
	ErrMsgPartialNotFound   = "partial file not found"
	ErrMsgPartialRead       = "partial file could not be read"
	ErrMsgPartialRecursion  = "partial is already being rendered"
	ErrMsgPartialDepth      = "maximum partial depth exceeded"
	ErrMsgContextCancelled  = "generation cancelled"
	ErrMsgBatchJobFailed    = "batch job failed"
	ErrFmtOutputWriteFailed = "Can't write file with path +%s"

	// Descriptors
	ErrMsgDescriptorNil         = "descriptor cannot be nil"
	ErrMsgDescriptorNoSource    = "descriptor has no source text or source path"
	ErrMsgDescriptorRead        = "failed to read template file"
	ErrMsgIncludeRead           = "failed to read include file"
	ErrMsgIncludeCountMismatch  = "include contents do not match include files"
	ErrMsgFrontmatterUnclosed   = "frontmatter is missing closing delimiter"
	ErrMsgFrontmatterTooLarge   = "frontmatter exceeds maximum size"
	ErrMsgFrontmatterParse      = "failed to parse frontmatter YAML"
	ErrMsgFrontmatterUnknownKey = "unknown frontmatter key"

	// Stores
	ErrMsgStoreClosed           = "source store is closed"
	ErrMsgSourceNotFound        = "template source not found"
	ErrMsgInvalidSourceName     = "invalid template source name"
	ErrMsgEmptySourceName       = "template source name cannot be empty"
	ErrMsgNilSource             = "template source cannot be nil"
	ErrMsgInvalidStoreRoot      = "store root directory cannot be empty"
	ErrMsgCreateStoreDir        = "failed to create store directory"
	ErrMsgReadStoreDir          = "failed to read store directory"
	ErrMsgReadSource            = "failed to read template source"
	ErrMsgWriteSource           = "failed to write template source"
	ErrMsgDeleteSource          = "failed to delete template source"
	ErrMsgNilStoreDriver        = "source store driver cannot be nil"
	ErrMsgStoreDriverRegistered = "source store driver already registered"
	ErrMsgStoreDriverNotFound   = "source store driver not found"
	ErrMsgPostgresEmptyDSN      = "postgres connection string cannot be empty"
	ErrMsgPostgresConnect       = "failed to connect to postgres"
	ErrMsgPostgresMigrate       = "failed to migrate postgres schema"
	ErrMsgPostgresQuery         = "postgres query failed"
	ErrMsgPostgresInvalidTable  = "postgres table name is invalid"
)

// Error code constants for categorization
const (
	ErrCodeCompile           = "CODEFORGE_COMPILE"
	ErrCodeRender            = "CODEFORGE_RENDER"
	ErrCodeModelTypeMismatch = "CODEFORGE_MODEL_TYPE_MISMATCH"
	ErrCodeFormat            = "CODEFORGE_FORMAT"
	ErrCodePartial           = "CODEFORGE_PARTIAL"
	ErrCodeOutput            = "CODEFORGE_OUTPUT"
	ErrCodeDescriptor        = "CODEFORGE_DESCRIPTOR"
	ErrCodeStore             = "CODEFORGE_STORE"
	ErrCodeSourceNotFound    = "CODEFORGE_SOURCE_NOT_FOUND"
	ErrCodeBatch             = "CODEFORGE_BATCH"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyCode        = "code"
	MetaKeyKey         = "key"
	MetaKeyKind        = "kind"
	MetaKeyModelType   = "model_type"
	MetaKeyExpected    = "expected"
	MetaKeyActual      = "actual"
	MetaKeyFormat      = "format"
	MetaKeyPartial     = "partial"
	MetaKeyPath        = "path"
	MetaKeyDepth       = "depth"
	MetaKeyOutputPath  = "output_path"
	MetaKeySourcePath  = "source_path"
	MetaKeyInclude     = "include"
	MetaKeySourceName  = "source_name"
	MetaKeyFrontmatter = "frontmatter_key"
	MetaKeyJobIndex    = "job_index"
)

// Log messages
const (
	LogMsgEngineCreated   = "engine created"
	LogMsgEngineReset     = "engine cache reset"
	LogMsgCacheHit        = "compiled template cache hit"
	LogMsgCacheMiss       = "compiled template cache miss"
	LogMsgCompileStart    = "compiling template"
	LogMsgCompileComplete = "template compiled"
	LogMsgCompileFailed   = "template compilation failed"
	LogMsgCacheCleared    = "compiled template cache cleared"
	LogMsgRenderStart     = "rendering template"
	LogMsgRenderComplete  = "template rendered"
	LogMsgPartialResolved = "partial resolved"
	LogMsgPartialNotFound = "partial file not found"
	LogMsgPartialFailed   = "partial render failed - diagnostic written to output"
	LogMsgOutputWritten   = "output file written"
	LogMsgOutputSkipped   = "no output path - output not written"
	LogMsgBatchStart      = "starting batch generation"
	LogMsgBatchJobFailed  = "batch job failed - continuing"
	LogMsgBatchComplete   = "batch generation complete"
)

// Log field names
const (
	LogFieldKey        = "key"
	LogFieldSource     = "source_length"
	LogFieldOutput     = "output_length"
	LogFieldPartial    = "partial"
	LogFieldPath       = "path"
	LogFieldDepth      = "depth"
	LogFieldOutputPath = "output_path"
	LogFieldBytes      = "bytes"
	LogFieldJobs       = "jobs"
	LogFieldFailed     = "failed"
	LogFieldJobIndex   = "job_index"
	LogFieldEntries    = "entries"
	LogFieldDuration   = "duration"
)
