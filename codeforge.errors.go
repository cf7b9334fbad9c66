package codeforge

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-codeforge/internal"
)

// newError creates a cuserr error carrying the codeforge error code as
// metadata, wrapping cause when present.
func newError(code, msg string, cause error) *cuserr.CustomError {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, code, msg)
	} else {
		err = cuserr.NewValidationError(code, msg)
	}
	return err.WithMetadata(MetaKeyCode, code)
}

// NewCompilationError creates an error for a template that failed to compile.
// The cause carries the template engine's diagnostic.
func NewCompilationError(key TemplateKey, cause error) error {
	return newError(ErrCodeCompile, ErrMsgCompileFailed, cause).
		WithMetadata(MetaKeyKey, key.String()).
		WithMetadata(MetaKeyKind, key.Kind.String()).
		WithMetadata(MetaKeyModelType, typeName(key.ModelType))
}

// NewEmptyKeyNameError creates an error for a template key without a name.
func NewEmptyKeyNameError(kind KeyKind) error {
	return newError(ErrCodeCompile, ErrMsgEmptyKeyName, nil).
		WithMetadata(MetaKeyKind, kind.String())
}

// NewModelTypeMismatchError creates an error for rendering an artifact with a
// model of a different type than it was compiled for.
func NewModelTypeMismatchError(key TemplateKey, actual string) error {
	return newError(ErrCodeModelTypeMismatch, ErrMsgModelTypeMismatch, nil).
		WithMetadata(MetaKeyKey, key.String()).
		WithMetadata(MetaKeyExpected, typeName(key.ModelType)).
		WithMetadata(MetaKeyActual, actual)
}

// NewRenderError creates an error for a failed template execution.
func NewRenderError(key TemplateKey, cause error) error {
	return newError(ErrCodeRender, ErrMsgRenderFailed, cause).
		WithMetadata(MetaKeyKey, key.String())
}

// NewNilArtifactError creates an error for rendering a nil artifact.
func NewNilArtifactError() error {
	return newError(ErrCodeRender, ErrMsgNilArtifact, nil)
}

// NewFormatArgumentError creates an error for a format string that references
// more arguments than were supplied. The message names the format string.
func NewFormatArgumentError(format string, cause error) error {
	msg := fmt.Sprintf(ErrFmtFormatArguments, format)
	return newError(ErrCodeFormat, msg, cause).
		WithMetadata(MetaKeyFormat, format)
}

// NewPartialNotFoundError creates an error for a partial whose file does not
// exist. The resolver converts it to inline text.
func NewPartialNotFoundError(name, path string) error {
	return cuserr.NewNotFoundError(MetaKeyPartial, ErrMsgPartialNotFound).
		WithMetadata(MetaKeyCode, ErrCodePartial).
		WithMetadata(MetaKeyPartial, name).
		WithMetadata(MetaKeyPath, path)
}

// NewPartialReadError creates an error for a partial file that exists but
// cannot be read.
func NewPartialReadError(name, path string, cause error) error {
	return newError(ErrCodePartial, ErrMsgPartialRead, cause).
		WithMetadata(MetaKeyPartial, name).
		WithMetadata(MetaKeyPath, path)
}

// NewPartialRecursionError creates an error for a partial that includes
// itself, directly or through other partials.
func NewPartialRecursionError(name string, depth int) error {
	return newError(ErrCodePartial, ErrMsgPartialRecursion, nil).
		WithMetadata(MetaKeyPartial, name).
		WithMetadata(MetaKeyDepth, strconv.Itoa(depth))
}

// NewPartialDepthError creates an error for partial nesting beyond the limit.
func NewPartialDepthError(name string, depth int) error {
	return newError(ErrCodePartial, ErrMsgPartialDepth, nil).
		WithMetadata(MetaKeyPartial, name).
		WithMetadata(MetaKeyDepth, strconv.Itoa(depth))
}

// NewOutputWriteError creates an error for a generated file that could not be
// written.
func NewOutputWriteError(outputPath string, cause error) error {
	msg := fmt.Sprintf(ErrFmtOutputWriteFailed, outputPath)
	return newError(ErrCodeOutput, msg, cause).
		WithMetadata(MetaKeyOutputPath, outputPath)
}

// NewDescriptorError creates an error for an invalid or unreadable descriptor.
func NewDescriptorError(msg, sourcePath string, cause error) error {
	return newError(ErrCodeDescriptor, msg, cause).
		WithMetadata(MetaKeySourcePath, sourcePath)
}

// NewIncludeReadError creates an error for an include file that could not be
// read.
func NewIncludeReadError(sourcePath, include string, cause error) error {
	return newError(ErrCodeDescriptor, ErrMsgIncludeRead, cause).
		WithMetadata(MetaKeySourcePath, sourcePath).
		WithMetadata(MetaKeyInclude, include)
}

// NewFrontmatterKeyError creates an error for an unknown frontmatter key.
// The message suggests the closest known keys.
func NewFrontmatterKeyError(sourcePath, key string, known []string) error {
	msg := ErrMsgFrontmatterUnknownKey + " '" + key + "'" +
		internal.DidYouMean(internal.ClosestMatches(key, known, internal.MaxSuggestions))
	return newError(ErrCodeDescriptor, msg, nil).
		WithMetadata(MetaKeySourcePath, sourcePath).
		WithMetadata(MetaKeyFrontmatter, key)
}

// NewBatchJobError wraps the failure of a single batch job.
func NewBatchJobError(index int, sourcePath string, cause error) error {
	return newError(ErrCodeBatch, ErrMsgBatchJobFailed, cause).
		WithMetadata(MetaKeyJobIndex, strconv.Itoa(index)).
		WithMetadata(MetaKeySourcePath, sourcePath)
}

// NewContextCancelledError wraps a context error that stopped generation.
func NewContextCancelledError(cause error) error {
	return newError(ErrCodeBatch, ErrMsgContextCancelled, cause)
}

// NewStoreError creates a source store error.
func NewStoreError(msg, name string, cause error) error {
	return newError(ErrCodeStore, msg, cause).
		WithMetadata(MetaKeySourceName, name)
}

// NewSourceNotFoundError creates an error for a missing template source.
func NewSourceNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeySourceName, ErrMsgSourceNotFound).
		WithMetadata(MetaKeyCode, ErrCodeSourceNotFound).
		WithMetadata(MetaKeySourceName, name)
}

// NewStoreClosedError creates an error for operations on a closed store.
func NewStoreClosedError() error {
	return newError(ErrCodeStore, ErrMsgStoreClosed, nil)
}

// hasCode reports whether any cuserr error in the chain carries code.
func hasCode(err error, code string) bool {
	for err != nil {
		var customErr *cuserr.CustomError
		if !errors.As(err, &customErr) {
			return false
		}
		if v, ok := customErr.GetMetadata(MetaKeyCode); ok && v == code {
			return true
		}
		err = errors.Unwrap(customErr)
	}
	return false
}

// IsCompilationError reports whether err is a template compilation failure.
func IsCompilationError(err error) bool {
	return hasCode(err, ErrCodeCompile)
}

// IsRenderError reports whether err is a template rendering failure.
func IsRenderError(err error) bool {
	return hasCode(err, ErrCodeRender) || hasCode(err, ErrCodeModelTypeMismatch)
}

// IsModelTypeMismatchError reports whether err comes from rendering an
// artifact with a model of another type.
func IsModelTypeMismatchError(err error) bool {
	return hasCode(err, ErrCodeModelTypeMismatch)
}

// IsFormatArgumentError reports whether err is caused by a format string
// with missing arguments.
func IsFormatArgumentError(err error) bool {
	return hasCode(err, ErrCodeFormat)
}

// IsPartialError reports whether err is a partial resolution failure.
func IsPartialError(err error) bool {
	return hasCode(err, ErrCodePartial)
}

// IsOutputWriteError reports whether err is an output write failure.
func IsOutputWriteError(err error) bool {
	return hasCode(err, ErrCodeOutput)
}

// IsDescriptorError reports whether err is a descriptor loading failure.
func IsDescriptorError(err error) bool {
	return hasCode(err, ErrCodeDescriptor)
}

// IsStoreError reports whether err comes from a source store.
func IsStoreError(err error) bool {
	return hasCode(err, ErrCodeStore) || hasCode(err, ErrCodeSourceNotFound)
}

// IsSourceNotFoundError reports whether err is a missing template source.
func IsSourceNotFoundError(err error) bool {
	return hasCode(err, ErrCodeSourceNotFound)
}

// formatErrorCause extracts the helper error recorded by the formatter, if
// any, so render failures keep the FormatArgumentError category.
func formatErrorCause(err error) (*internal.FormatError, bool) {
	var formatErr *internal.FormatError
	if errors.As(err, &formatErr) {
		return formatErr, true
	}
	return nil, false
}

// diagnosticText returns the innermost error message in err's chain, which is
// the template engine's own diagnostic for compile and render failures.
func diagnosticText(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
