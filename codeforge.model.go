package codeforge

import (
	"reflect"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// modelBinder exposes a model's values as top-level template variables.
// A binder is chosen once per compiled key from the model type, so rendering
// never re-inspects the model's shape.
type modelBinder func(model any) pongo2.Context

// newModelBinder selects the binder for modelType:
//   - maps with string keys expose each entry;
//   - structs (or pointers to structs) expose exported fields by name and by
//     their json tag name;
//   - anything else is only reachable through the "model" variable.
//
// The untouched model is always available as "model".
func newModelBinder(modelType reflect.Type) modelBinder {
	if modelType == nil {
		return func(any) pongo2.Context {
			return pongo2.Context{ContextKeyModel: nil}
		}
	}

	structType := modelType
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	switch {
	case modelType.Kind() == reflect.Map && modelType.Key().Kind() == reflect.String:
		return bindMap
	case structType.Kind() == reflect.Struct:
		return newStructBinder(structType)
	default:
		return func(model any) pongo2.Context {
			return pongo2.Context{ContextKeyModel: model}
		}
	}
}

func bindMap(model any) pongo2.Context {
	rv := reflect.ValueOf(model)
	ctx := make(pongo2.Context, rv.Len()+1)
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		if !isIdentifier(key) {
			continue
		}
		ctx[key] = iter.Value().Interface()
	}
	ctx[ContextKeyModel] = model
	return ctx
}

type boundField struct {
	names []string
	index []int
}

func newStructBinder(structType reflect.Type) modelBinder {
	var fields []boundField
	for _, f := range reflect.VisibleFields(structType) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		names := []string{f.Name}
		if tag := jsonTagName(f.Tag.Get("json")); isIdentifier(tag) && tag != f.Name {
			names = append(names, tag)
		}
		fields = append(fields, boundField{names: names, index: f.Index})
	}

	return func(model any) pongo2.Context {
		ctx := make(pongo2.Context, len(fields)+1)

		rv := reflect.ValueOf(model)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				ctx[ContextKeyModel] = model
				return ctx
			}
			rv = rv.Elem()
		}
		for _, f := range fields {
			fv, err := rv.FieldByIndexErr(f.index)
			if err != nil || !fv.CanInterface() {
				// promoted through a nil embedded pointer
				continue
			}
			for _, name := range f.names {
				ctx[name] = fv.Interface()
			}
		}
		ctx[ContextKeyModel] = model
		return ctx
	}
}

func jsonTagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// isIdentifier reports whether name is usable as a pongo2 context key.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
