package codeforge

import (
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	indent           string
	lineEnding       string
	titleLanguage    language.Tag
	maxPartialDepth  int
	batchConcurrency int
	compiler         Compiler
	cache            *Cache
	logger           *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		titleLanguage:    language.Und,
		maxPartialDepth:  DefaultMaxPartialDepth,
		batchConcurrency: DefaultBatchConcurrency,
	}
}

// WithIndent sets the indent unit returned by tab() and used by writeLine.
// Default: "\t"
func WithIndent(indent string) Option {
	return func(c *engineConfig) {
		c.indent = indent
	}
}

// WithLineEnding sets the line terminator used by newline(), writeLine and the
// generated-file banner.
// Default: "\r\n" on Windows, "\n" elsewhere
func WithLineEnding(lineEnding string) Option {
	return func(c *engineConfig) {
		c.lineEnding = lineEnding
	}
}

// WithTitleLanguage sets the language whose casing rules titleCase applies.
// Default: language.Und
func WithTitleLanguage(tag language.Tag) Option {
	return func(c *engineConfig) {
		c.titleLanguage = tag
	}
}

// WithMaxPartialDepth sets how deeply partials may nest.
// Use 0 for unlimited depth; self-recursion is still rejected.
// Default: 10
func WithMaxPartialDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxPartialDepth = depth
	}
}

// WithBatchConcurrency sets how many batch jobs run at once.
// Default: 1 (sequential)
func WithBatchConcurrency(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.batchConcurrency = n
		}
	}
}

// WithCompiler replaces the default pongo2 compiler.
// Ignored when WithCache is also given; the cache brings its own compiler.
func WithCompiler(compiler Compiler) Option {
	return func(c *engineConfig) {
		c.compiler = compiler
	}
}

// WithCache makes the engine use a caller-owned cache, e.g. to share compiled
// artifacts between engines of one generation run.
func WithCache(cache *Cache) Option {
	return func(c *engineConfig) {
		c.cache = cache
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
