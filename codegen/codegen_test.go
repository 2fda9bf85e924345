package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiCHH/luna/codegen"
	"github.com/LiCHH/luna/parser"
	"github.com/LiCHH/luna/runtime"
	"github.com/LiCHH/luna/source"
	"github.com/LiCHH/luna/strtab"
)

func generate(t *testing.T, src string) *runtime.Function {
	t.Helper()

	file := &source.File{Filename: "test.luna", Contents: src, Lines: strings.SplitAfter(src, "\n")}
	chunk, msgs := parser.Parse(file)
	require.Empty(t, msgs)

	gc := runtime.New()
	state := &codegen.State{GC: gc, Interner: strtab.New(gc), Env: gc.NewTable()}

	proto, closure, err := codegen.Generate(file, state, chunk)
	require.NoError(t, err)
	require.NotNil(t, closure)
	return proto
}

// A bare print("hi") call statement lowers to five instructions: load the
// global name, resolve it through the env upvalue, load the string
// argument, call with no expected results, then the enclosing block's
// closing SetTop.
func TestGenerate_NormalFuncCall(t *testing.T) {
	proto := generate(t, `print("hi")`)

	require.Len(t, proto.Instructions, 5)
	assert.Equal(t, runtime.OpLoadConst, proto.Instructions[0].Op)
	assert.Equal(t, runtime.OpGetUpTable, proto.Instructions[1].Op)
	assert.Equal(t, runtime.OpLoadConst, proto.Instructions[2].Op)
	assert.Equal(t, runtime.OpCall, proto.Instructions[3].Op)
	assert.Equal(t, runtime.OpSetTop, proto.Instructions[4].Op)

	require.Len(t, proto.StrConstants, 2)
	assert.Equal(t, "print", proto.StrConstants[0].Value)
	assert.Equal(t, "hi", proto.StrConstants[1].Value)
}

// local a, b = 1, 2 declares both locals at registers 0 and 1, evaluates
// both initializers into that same register window, and emits a Move per
// local even though source and destination coincide; see the doc comment
// on genLocalNameList for why this self-move shape is the chosen
// resolution of the register-numbering rule.
func TestGenerate_LocalNameList(t *testing.T) {
	proto := generate(t, "local a, b = 1, 2")

	require.Len(t, proto.NumConstants, 2)
	assert.Equal(t, float64(1), proto.NumConstants[0])
	assert.Equal(t, float64(2), proto.NumConstants[1])

	var loads, moves int
	for _, inst := range proto.Instructions {
		switch inst.Op {
		case runtime.OpLoadConst:
			loads++
		case runtime.OpMove:
			moves++
			assert.Equal(t, inst.A, inst.B, "local init moves are same-register copies")
		}
	}
	assert.Equal(t, 2, loads)
	assert.Equal(t, 2, moves)

	// The statement's own SetTop (second-to-last: the enclosing block
	// emits its own closing SetTop after it) restores the watermark past
	// both declared locals rather than back to the statement's entry
	// register, keeping them live for the rest of the block.
	stmtSetTop := proto.Instructions[len(proto.Instructions)-2]
	assert.Equal(t, runtime.OpSetTop, stmtSetTop.Op)
	assert.Equal(t, int32(2), stmtSetTop.A)

	blockSetTop := proto.Instructions[len(proto.Instructions)-1]
	assert.Equal(t, runtime.OpSetTop, blockSetTop.Op)
	assert.Equal(t, int32(0), blockSetTop.A)
}

// Control flow (here an if statement) has no lowering in this generator;
// it must fail fast with Unsupported rather than silently miscompiling.
func TestGenerate_UnsupportedControlFlow(t *testing.T) {
	file := &source.File{Filename: "test.luna", Contents: "if true then end", Lines: []string{"if true then end"}}
	chunk, msgs := parser.Parse(file)
	require.Empty(t, msgs)

	gc := runtime.New()
	state := &codegen.State{GC: gc, Interner: strtab.New(gc), Env: gc.NewTable()}

	_, _, err := codegen.Generate(file, state, chunk)
	require.Error(t, err)

	cerr, ok := err.(*codegen.CodegenError)
	require.True(t, ok)
	assert.Equal(t, codegen.Unsupported, cerr.Kind)
}

// Repeated number and string literals dedup into a single constant pool
// slot each.
func TestGenerate_ConstantDedup(t *testing.T) {
	proto := generate(t, `local a = 1
local b = 1
print("x")
print("x")`)

	assert.Len(t, proto.NumConstants, 1)

	var strs []string
	for _, s := range proto.StrConstants {
		strs = append(strs, s.Value)
	}
	assert.Equal(t, []string{"print", "x"}, strs)
}
