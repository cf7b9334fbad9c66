package codeforge

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
)

// KeyKind separates main templates from partials so that the two never share
// a cache slot, even under the same name.
type KeyKind int

const (
	// KeyKindMain identifies a descriptor's main template.
	KeyKindMain KeyKind = iota
	// KeyKindPartial identifies a partial resolved during rendering.
	KeyKindPartial
)

// String returns the string representation of the key kind.
func (k KeyKind) String() string {
	switch k {
	case KeyKindPartial:
		return KeyKindNamePartial
	default:
		return KeyKindNameMain
	}
}

// TemplateKey identifies one compilable unit of text bound to one model type.
// Keys are comparable and used directly as cache keys. ModelType holds the
// type itself, so distinct types sharing a name never share a key.
type TemplateKey struct {
	Kind      KeyKind
	Name      string
	ModelType reflect.Type
}

// String returns a human-readable key, e.g. "partial:row.partial[main.User]".
// Two keys may print the same when their model types share a name.
func (k TemplateKey) String() string {
	return k.Kind.String() + ":" + k.Name + "[" + typeName(k.ModelType) + "]"
}

// identity is unique per key: the type's runtime identity is appended to the
// printed form.
func (k TemplateKey) identity() string {
	if k.ModelType == nil {
		return k.String()
	}
	return fmt.Sprintf("%s@%p", k.String(), k.ModelType)
}

// MainKey returns the key of a main template compiled for modelType.
func MainKey(name string, modelType reflect.Type) TemplateKey {
	return TemplateKey{Kind: KeyKindMain, Name: name, ModelType: modelType}
}

// PartialKey returns the key of a partial compiled for modelType.
func PartialKey(name string, modelType reflect.Type) TemplateKey {
	return TemplateKey{Kind: KeyKindPartial, Name: name, ModelType: modelType}
}

// KeyFor returns the key of a template compiled for the static model type M.
func KeyFor[M any](kind KeyKind, name string) TemplateKey {
	return TemplateKey{Kind: kind, Name: name, ModelType: reflect.TypeOf((*M)(nil)).Elem()}
}

// ModelTypeOf returns the runtime type of model; nil for a nil model.
func ModelTypeOf(model any) reflect.Type {
	return reflect.TypeOf(model)
}

// InlineName derives a stable template name for source text that has no path.
func InlineName(source string) string {
	sum := sha256.Sum256([]byte(source))
	return InlineKeyPrefix + hex.EncodeToString(sum[:])[:InlineKeyHashLen]
}

func typeName(t reflect.Type) string {
	if t == nil {
		return NilModelTypeName
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
