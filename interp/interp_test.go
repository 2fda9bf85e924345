package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiCHH/luna/codegen"
	"github.com/LiCHH/luna/interp"
	"github.com/LiCHH/luna/parser"
	"github.com/LiCHH/luna/runtime"
	"github.com/LiCHH/luna/source"
	"github.com/LiCHH/luna/stdlib"
	"github.com/LiCHH/luna/strtab"
)

// run compiles and executes src end to end, exactly the pipeline
// cmd/luna's runFile drives, and returns whatever print wrote.
func run(t *testing.T, src string) string {
	t.Helper()

	file := &source.File{Filename: "test.luna", Contents: src, Lines: strings.SplitAfter(src, "\n")}
	chunk, msgs := parser.Parse(file)
	require.Empty(t, msgs)

	gc := runtime.New()
	interner := strtab.New(gc)
	env := gc.NewTable()

	var out bytes.Buffer
	restore := stdlib.RedirectStdout(&out)
	defer restore()
	stdlib.Install(gc, interner, env)

	state := &codegen.State{GC: gc, Interner: interner, Env: env}
	_, closure, err := codegen.Generate(file, state, chunk)
	require.NoError(t, err)

	vm := interp.New(gc, env)
	require.NoError(t, vm.Run(closure))

	return out.String()
}

// print("hi") must load the global, resolve it through the env upvalue,
// and invoke it with the string argument.
func TestRun_PrintHi(t *testing.T) {
	out := run(t, `print("hi")`)
	assert.Equal(t, "hi\n", out)
}

func TestRun_PrintMultipleArgsAreTabSeparated(t *testing.T) {
	out := run(t, `print("a", "b")`)
	assert.Equal(t, "a\tb\n", out)
}

// local a, b = 1, 2 followed by print(a, b) exercises Move-based register
// binding end to end: the printed values must be the initializers, not
// garbage left over from the call's own temporary window.
func TestRun_LocalsSurviveIntoLaterStatements(t *testing.T) {
	out := run(t, "local a, b = 1, 2\nprint(a, b)")
	assert.Equal(t, "1\t2\n", out)
}

func TestRun_UndefinedGlobalReadsAsNil(t *testing.T) {
	out := run(t, "local x = y\nprint(x)")
	assert.Equal(t, "nil\n", out)
}
