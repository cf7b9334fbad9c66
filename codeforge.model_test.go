package codeforge

import (
	"testing"

	"github.com/flosch/pongo2/v6"
	"github.com/stretchr/testify/assert"
)

type Audit struct {
	CreatedBy string
}

type entityModel struct {
	*Audit
	Name    string `json:"name"`
	Table   string `json:"table_name,omitempty"`
	Skipped string `json:"-"`
	secret  string
}

func TestModelBinder_Map(t *testing.T) {
	model := map[string]any{"name": "World", "bad-key": 1, "model": "shadowed"}
	ctx := newModelBinder(ModelTypeOf(model))(model)

	assert.Equal(t, "World", ctx["name"])
	assert.NotContains(t, ctx, "bad-key")
	assert.Equal(t, model, ctx[ContextKeyModel])
}

func TestModelBinder_Struct(t *testing.T) {
	model := entityModel{Name: "User", Table: "users", Skipped: "s", secret: "x"}
	ctx := newModelBinder(ModelTypeOf(model))(model)

	assert.Equal(t, "User", ctx["Name"])
	assert.Equal(t, "User", ctx["name"])
	assert.Equal(t, "users", ctx["Table"])
	assert.Equal(t, "users", ctx["table_name"])
	assert.Equal(t, "s", ctx["Skipped"])
	assert.NotContains(t, ctx, "secret")
	assert.NotContains(t, ctx, "CreatedBy", "promoted through nil embedded pointer")
	assert.Equal(t, model, ctx[ContextKeyModel])
}

func TestModelBinder_StructPointer(t *testing.T) {
	model := &entityModel{Audit: &Audit{CreatedBy: "gen"}, Name: "User"}
	ctx := newModelBinder(ModelTypeOf(model))(model)

	assert.Equal(t, "User", ctx["Name"])
	assert.Equal(t, "gen", ctx["CreatedBy"])
	assert.Same(t, model, ctx[ContextKeyModel])

	var nilModel *entityModel
	ctx = newModelBinder(ModelTypeOf(nilModel))(nilModel)
	assert.Equal(t, pongo2.Context{ContextKeyModel: nilModel}, ctx)
}

func TestModelBinder_Other(t *testing.T) {
	ctx := newModelBinder(ModelTypeOf(42))(42)
	assert.Equal(t, pongo2.Context{ContextKeyModel: 42}, ctx)

	ctx = newModelBinder(nil)(nil)
	assert.Equal(t, pongo2.Context{ContextKeyModel: nil}, ctx)
}
