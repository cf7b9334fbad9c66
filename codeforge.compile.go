package codeforge

import (
	"reflect"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Compiler turns template source into an Artifact bound to one model type.
// Implementations must be pure functions of (source, modelType): no other
// state may influence the result.
type Compiler interface {
	Compile(key TemplateKey, source string, modelType reflect.Type) (*Artifact, error)
}

// Artifact is a compiled template bound to exactly one key and model type.
// Artifacts are immutable and safe to execute concurrently.
type Artifact struct {
	key       TemplateKey
	modelType reflect.Type
	source    string
	tpl       *pongo2.Template
	bind      modelBinder
}

// Key returns the key the artifact was compiled under.
func (a *Artifact) Key() TemplateKey {
	return a.key
}

// ModelType returns the model type the artifact is bound to.
func (a *Artifact) ModelType() reflect.Type {
	return a.modelType
}

// Source returns the concatenated source text the artifact was compiled from.
func (a *Artifact) Source() string {
	return a.source
}

// accepts reports whether model has the type the artifact was compiled for.
func (a *Artifact) accepts(model any) bool {
	return reflect.TypeOf(model) == a.modelType
}

// PongoCompiler compiles templates with pongo2. Each compiler owns an isolated
// template set, so no pongo2 global state is shared between engines.
type PongoCompiler struct {
	mu  sync.Mutex // serializes parsing on the shared template set
	set *pongo2.TemplateSet
}

// NewPongoCompiler creates a compiler. baseDir is used by pongo2's own
// {% include %} and {% import %} tags; empty means the working directory.
func NewPongoCompiler(baseDir string) (*PongoCompiler, error) {
	loader, err := pongo2.NewLocalFileSystemLoader(baseDir)
	if err != nil {
		return nil, err
	}
	return &PongoCompiler{
		set: pongo2.NewSet(TemplateSetName, loader),
	}, nil
}

// Compile implements Compiler. The source runs inside an autoescape-off block;
// output is never HTML-escaped.
func (c *PongoCompiler) Compile(key TemplateKey, source string, modelType reflect.Type) (*Artifact, error) {
	c.mu.Lock()
	tpl, err := c.set.FromString(autoescapeOpen + source + autoescapeClose)
	c.mu.Unlock()
	if err != nil {
		return nil, NewCompilationError(key, err)
	}
	return &Artifact{
		key:       key,
		modelType: modelType,
		source:    source,
		tpl:       tpl,
		bind:      newModelBinder(modelType),
	}, nil
}
