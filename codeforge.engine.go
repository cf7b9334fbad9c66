package codeforge

import (
	"context"

	"go.uber.org/zap"

	"github.com/itsatony/go-codeforge/internal"
)

// Engine is the main entry point for code generation.
// It owns the compilation cache and runs the compile, render and write
// pipeline for template descriptors.
//
// An Engine holds no global state. Create one per generation run, or call
// Reset between runs.
type Engine struct {
	cache     *Cache
	formatter internal.Formatter
	config    *engineConfig
	logger    *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cache := config.cache
	if cache == nil {
		compiler := config.compiler
		if compiler == nil {
			pc, err := NewPongoCompiler("")
			if err != nil {
				return nil, err
			}
			compiler = pc
		}
		cache = NewCache(compiler, logger)
	}

	formatter := internal.NewFormatter(config.indent, config.lineEnding, config.titleLanguage)

	logger.Debug(LogMsgEngineCreated)

	return &Engine{
		cache:     cache,
		formatter: formatter,
		config:    config,
		logger:    logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Cache returns the engine's compilation cache.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Reset clears the compilation cache so the next run starts fresh.
func (e *Engine) Reset() {
	e.cache.Clear()
	e.logger.Debug(LogMsgEngineReset)
}

// LineEnding returns the configured line terminator.
func (e *Engine) LineEnding() string {
	return e.formatter.LineEnding
}

// Compile returns the compiled main template of desc for the model's type,
// compiling include contents and body on first use.
func (e *Engine) Compile(desc *TemplateDescriptor, model any) (*Artifact, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	modelType := ModelTypeOf(model)
	return e.cache.GetOrCompile(MainKey(desc.Name(), modelType), desc.AssembleSource(), modelType)
}

// RenderDescriptor compiles and renders desc against model and returns the
// final text: the trimmed body, with the banner prepended when desc.Header is
// set.
func (e *Engine) RenderDescriptor(desc *TemplateDescriptor, model any) (string, error) {
	artifact, err := e.Compile(desc, model)
	if err != nil {
		return "", err
	}

	body, err := e.Render(artifact, model, RenderContext{InputFolder: desc.InputFolder})
	if err != nil {
		return "", err
	}

	return AssembleOutput(body, desc.Header, e.formatter.LineEnding), nil
}

// GenerateResult describes one generated output.
type GenerateResult struct {
	SourcePath string
	OutputPath string
	Text       string
	Written    bool
}

// Generate renders desc against model and writes the result to
// desc.OutputPath. Without an output path the text is returned unwritten.
func (e *Engine) Generate(ctx context.Context, desc *TemplateDescriptor, model any) (*GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewContextCancelledError(err)
	}

	text, err := e.RenderDescriptor(desc, model)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		SourcePath: desc.SourcePath,
		OutputPath: desc.OutputPath,
		Text:       text,
	}

	if desc.OutputPath == "" {
		e.logger.Debug(LogMsgOutputSkipped, zap.String(LogFieldKey, desc.Name()))
		return result, nil
	}

	if err := WriteOutput(desc.OutputPath, text); err != nil {
		return nil, err
	}
	result.Written = true

	e.logger.Debug(LogMsgOutputWritten,
		zap.String(LogFieldOutputPath, desc.OutputPath),
		zap.Int(LogFieldBytes, len(text)))

	return result, nil
}
