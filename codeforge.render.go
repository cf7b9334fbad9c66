package codeforge

import (
	"strings"

	"github.com/flosch/pongo2/v6"
	"go.uber.org/zap"

	"github.com/itsatony/go-codeforge/internal"
)

// RenderContext carries the ambient values of one render. It is a closed set
// of fields: there is no open-ended bag of dynamic attributes.
type RenderContext struct {
	// InputFolder is the directory partial names are resolved against.
	// Empty means partial names are used as given.
	InputFolder string
}

// renderState is the per-execution state behind the template functions.
// Each main render and each partial gets its own state.
type renderState struct {
	engine *Engine
	rctx   RenderContext
	model  any
	depth  int
	active map[TemplateKey]struct{} // partial keys on the current include path
	err    error                    // first helper failure
}

func (e *Engine) newRenderState(model any, rctx RenderContext) *renderState {
	return &renderState{
		engine: e,
		rctx:   rctx,
		model:  model,
		active: map[TemplateKey]struct{}{},
	}
}

// child returns the state for a partial rendered from st.
func (st *renderState) child(key TemplateKey, model any) *renderState {
	active := make(map[TemplateKey]struct{}, len(st.active)+1)
	for k := range st.active {
		active[k] = struct{}{}
	}
	active[key] = struct{}{}

	return &renderState{
		engine: st.engine,
		rctx:   st.rctx,
		model:  model,
		depth:  st.depth + 1,
		active: active,
	}
}

func (st *renderState) fail(err error) {
	if st.err == nil {
		st.err = err
	}
}

// Render executes artifact against model and rctx and returns the output
// trimmed of leading and trailing whitespace. The model is never modified.
// Partials invoked by the template may compile into the engine's cache.
func (e *Engine) Render(artifact *Artifact, model any, rctx RenderContext) (string, error) {
	out, err := e.execute(artifact, e.newRenderState(model, rctx))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// execute runs artifact with the given state and returns the raw output.
func (e *Engine) execute(artifact *Artifact, st *renderState) (string, error) {
	if artifact == nil {
		return "", NewNilArtifactError()
	}
	if !artifact.accepts(st.model) {
		return "", NewModelTypeMismatchError(artifact.key, typeName(ModelTypeOf(st.model)))
	}

	e.logger.Debug(LogMsgRenderStart,
		zap.String(LogFieldKey, artifact.key.String()),
		zap.Int(LogFieldDepth, st.depth))

	ctx := artifact.bind(st.model)
	st.bindFuncs(ctx)

	out, err := artifact.tpl.Execute(ctx)
	if st.err != nil {
		return "", NewRenderError(artifact.key, st.err)
	}
	if err != nil {
		if formatErr, ok := formatErrorCause(err); ok {
			err = NewFormatArgumentError(formatErr.Format, formatErr)
		}
		return "", NewRenderError(artifact.key, err)
	}

	e.logger.Debug(LogMsgRenderComplete,
		zap.String(LogFieldKey, artifact.key.String()),
		zap.Int(LogFieldOutput, len(out)))

	return out, nil
}

// bindFuncs adds the formatting helpers and the partial resolver to a
// template context. They shadow model values of the same name.
func (st *renderState) bindFuncs(ctx pongo2.Context) {
	f := st.engine.formatter

	ctx[internal.FuncNameNewline] = f.Newline
	ctx[internal.FuncNameTab] = f.Tab
	ctx[internal.FuncNameEscape] = internal.Escape
	ctx[internal.FuncNameRaw] = func(text *pongo2.Value) *pongo2.Value {
		return pongo2.AsSafeValue(internal.Raw(text.String()))
	}
	ctx[internal.FuncNameTitleCase] = func(text *pongo2.Value) string {
		return f.TitleCase(text.String())
	}
	ctx[internal.FuncNameWriteLine] = st.writeLine
	ctx[internal.FuncNamePartial] = st.partial
}

// writeLine backs writeLine(text), writeLine(n, text),
// writeLine(format, args...) and writeLine(n, format, args...).
// The text is always formatted, even without args: "{{" and "}}" print a
// single brace and a bare {N} fails. Text that must pass through unchanged
// goes through raw() and newline() instead.
func (st *renderState) writeLine(args ...*pongo2.Value) (string, error) {
	f := st.engine.formatter

	indent := 0
	if len(args) > 0 && args[0].IsInteger() {
		indent = args[0].Integer()
		args = args[1:]
	}
	if len(args) == 0 {
		return f.WriteLine(indent, ""), nil
	}

	format := args[0].String()
	values := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		values = append(values, arg.String())
	}

	line, err := f.WriteLinef(indent, format, values...)
	if err != nil {
		err = NewFormatArgumentError(format, err)
		st.fail(err)
		return "", err
	}
	return line, nil
}

// partial backs partial(name) and partial(name, model). Without a model
// argument the current model is passed on.
func (st *renderState) partial(name *pongo2.Value, args ...*pongo2.Value) *pongo2.Value {
	model := st.model
	if len(args) > 0 {
		model = args[0].Interface()
	}
	return pongo2.AsSafeValue(st.engine.renderPartial(st, name.String(), model))
}
