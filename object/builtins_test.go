package object

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(stdout *bytes.Buffer) *Environment {
	return NewEnvironment(stdout, &bytes.Buffer{}, strings.NewReader(""))
}

func TestPrintFuncConcatenatesAndAddsNewline(t *testing.T) {
	var out bytes.Buffer
	env := newTestEnv(&out)
	Builtins["printf"].Callback(env, []Value{&Int{Value: 3}, &Str{Value: " "}, &Str{Value: "ok"}})
	assert.Equal(t, "3 ok\n", out.String())
}

func TestPrintFuncNoDoubleNewline(t *testing.T) {
	var out bytes.Buffer
	env := newTestEnv(&out)
	Builtins["print"].Callback(env, []Value{&Str{Value: "already\n"}})
	assert.Equal(t, "already\n", out.String())
}

func TestLenFunc(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	got := Builtins["len"].Callback(env, []Value{&Str{Value: "hello"}}).(*Int)
	assert.EqualValues(t, 5, got.Value)

	gotArr := Builtins["strlen"].Callback(env, []Value{&Array{Elements: []Value{&Int{Value: 1}, &Int{Value: 2}}}}).(*Int)
	assert.EqualValues(t, 2, gotArr.Value)

	assert.Equal(t, NilValue, Builtins["len"].Callback(env, []Value{&Int{Value: 1}}))
}

func TestNumberFunc(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	got := Builtins["number"].Callback(env, []Value{&Str{Value: " 42 "}}).(*Int)
	assert.EqualValues(t, 42, got.Value)

	bad := Builtins["number"].Callback(env, []Value{&Str{Value: "not a number"}}).(*Int)
	assert.EqualValues(t, 0, bad.Value)

	passthrough := Builtins["number"].Callback(env, []Value{&Int{Value: 9}}).(*Int)
	assert.EqualValues(t, 9, passthrough.Value)
}

func TestLowerUpper(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	lo := Builtins["lower"].Callback(env, []Value{&Str{Value: "ABC"}}).(*Str)
	assert.Equal(t, "abc", lo.Value)
	up := Builtins["upper"].Callback(env, []Value{&Str{Value: "abc"}}).(*Str)
	assert.Equal(t, "ABC", up.Value)
}

func TestLowerUpperRoundTrip(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	s := &Str{Value: "MixedCase123"}
	lowerOfUpper := Builtins["lower"].Callback(env, []Value{Builtins["upper"].Callback(env, []Value{s})})
	lower := Builtins["lower"].Callback(env, []Value{s})
	require.Equal(t, lower.(*Str).Value, lowerOfUpper.(*Str).Value)
}

func TestShellFuncCapturesStdout(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	got := Builtins["shell"].Callback(env, []Value{&Str{Value: "printf hello"}})
	s, ok := got.(*Str)
	require.True(t, ok)
	assert.Equal(t, "hello", s.Value)
}

func TestSleepFuncReturnsNil(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	got := Builtins["sleep"].Callback(env, []Value{&Int{Value: 0}})
	assert.Equal(t, NilValue, got)
}
