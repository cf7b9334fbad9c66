// Package codeforge renders code-generation templates against data models and
// writes the generated files.
//
// Templates use pongo2 (Django/Jinja) syntax. Every template is compiled once
// per model type and cached; include files are prepended to the template body
// before compilation; nested templates ("partials") are compiled and cached on
// demand while rendering.
//
//	engine := codeforge.MustNew()
//	desc := &codeforge.TemplateDescriptor{SourceText: "Hello {{ name }}"}
//	text, err := engine.RenderDescriptor(desc, map[string]any{"name": "World"})
//	// text: "Hello World"
//
// # Template Functions
//
// Besides the model's values, every template can call:
//
//	newline()                     the configured line ending
//	tab()                         one indent unit
//	writeLine(n, format, args...) n indents, positional {0} formatting, line ending
//	titleCase(text)               language-aware title casing
//	escape()                      a literal "{", e.g. {{ escape() }}{ x }}
//	raw(text)                     text, unmodified
//	partial(name[, model])        the rendered partial file
//
// writeLine always formats its text: {N} is replaced by argument N, {{ and }}
// produce single braces. A {N} without a matching argument fails the render.
//
// # Partials
//
// partial("row.cft") resolves the name against the descriptor's InputFolder.
// A broken partial never fails the render. A missing file is replaced by
//
//	Partial file Not Found <path>
//
// and a partial that fails to read, compile or render by
//
//	Partial Render Error<path>
//	<diagnostic>
//
// # Descriptors
//
// Template files may start with YAML frontmatter:
//
//	---
//	output: ../gen/user.go
//	header: true
//	includes: [helpers.cft]
//	input_folder: partials
//	---
//	package gen
//	...
//
// LoadDescriptor reads such a file with its includes; LoadDescriptorFromStore
// does the same through a SourceStore (memory, filesystem or PostgreSQL).
// NewCachedStore keeps recently fetched sources in memory in front of any
// store.
//
// # Generation
//
// Generate renders one descriptor and writes it to its output path.
// GenerateBatch runs many, recording a failure on its job and carrying on
// with the rest:
//
//	result := engine.GenerateBatch(ctx, jobs)
//	if err := result.Err(); err != nil {
//	    // one entry per failed job
//	}
package codeforge
