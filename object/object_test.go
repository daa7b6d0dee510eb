package object

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueStringRendering(t *testing.T) {
	assert.Equal(t, "42", (&Int{Value: 42}).String())
	assert.Equal(t, "hi", (&Str{Value: "hi"}).String())
	assert.Equal(t, "", NilValue.String())
	arr := &Array{Elements: []Value{&Int{Value: 1}, &Str{Value: "x"}, NilValue}}
	assert.Equal(t, "[1, x, ]", arr.String())
}

func TestTruthy(t *testing.T) {
	assert.True(t, Truthy(&Int{Value: 1}))
	assert.False(t, Truthy(&Int{Value: 0}))
	assert.True(t, Truthy(&Str{Value: "x"}))
	assert.False(t, Truthy(&Str{Value: ""}))
	assert.True(t, Truthy(&Array{Elements: []Value{&Int{Value: 0}}}))
	assert.False(t, Truthy(&Array{}))
	assert.False(t, Truthy(NilValue))
}

func TestIsNil(t *testing.T) {
	assert.True(t, IsNil(NilValue))
	assert.False(t, IsNil(&Int{Value: 0}))
}

func TestEnvironmentGetSetUnbound(t *testing.T) {
	env := NewEnvironment(&bytes.Buffer{}, &bytes.Buffer{}, strings.NewReader(""))
	assert.Equal(t, NilValue, env.Get("$undefined"))
	env.Set("$x", &Int{Value: 7})
	got, ok := env.Get("$x").(*Int)
	if assert.True(t, ok) {
		assert.EqualValues(t, 7, got.Value)
	}
}

func TestEnvironmentFunctionTable(t *testing.T) {
	env := NewEnvironment(&bytes.Buffer{}, &bytes.Buffer{}, strings.NewReader(""))
	_, ok := env.LookupFunction("show")
	assert.False(t, ok)
	env.DefineFunction("show", nil)
	_, ok = env.LookupFunction("show")
	assert.True(t, ok)
}

func TestArrayMutationIsVisibleThroughPointer(t *testing.T) {
	env := NewEnvironment(&bytes.Buffer{}, &bytes.Buffer{}, strings.NewReader(""))
	arr := &Array{Elements: []Value{&Int{Value: 1}}}
	env.Set("$a", arr)
	arr.Elements = append(arr.Elements, &Int{Value: 2})
	stored := env.Get("$a").(*Array)
	assert.Len(t, stored.Elements, 2)
}
