// Package stdlib populates the global environment table with the
// handful of host-implemented functions this runtime ships: currently
// just print, installed as a native closure so the interpreter's Call
// opcode can invoke it without ever decoding a bytecode body for it.
package stdlib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/LiCHH/luna/runtime"
	"github.com/LiCHH/luna/strtab"
)

// stdout is where print writes; tests redirect it to a buffer.
var stdout io.Writer = os.Stdout

// RedirectStdout points print's output at w and returns a func that
// restores the previous destination, so a test can `defer restore()`
// around a temporary redirection.
func RedirectStdout(w io.Writer) (restore func()) {
	prev := stdout
	stdout = w
	return func() { stdout = prev }
}

// Install registers every stdlib function into env, interning each name
// through interner so it is the identical *runtime.String any GetUpTable
// lookup of that global resolves to.
func Install(gc *runtime.GC, interner *strtab.Interner, env *runtime.Table) {
	register(gc, interner, env, "print", nativePrint)
}

func register(gc *runtime.GC, interner *strtab.Interner, env *runtime.Table, name string, fn func(args []runtime.Value) []runtime.Value) {
	proto := gc.NewFunction(name, 0, nil)
	proto.Native = fn
	closure := gc.NewClosure(proto)

	key := runtime.StringValue(interner.Intern(name))
	env.Set(gc, key, runtime.ClosureValue(closure))
}

// nativePrint implements Lua's print: every argument's ToString
// rendering, tab-separated, followed by a newline. It always returns no
// values.
func nativePrint(args []runtime.Value) []runtime.Value {
	w := bufio.NewWriter(stdout)
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = ToString(a)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
	w.Flush()
	return nil
}

// ToString renders a Value the way print and future string-coercion
// builtins should: Lua-family naming for the non-primitive kinds, a bare
// decimal for numbers.
func ToString(v runtime.Value) string {
	switch v.Kind {
	case runtime.KindNil:
		return "nil"
	case runtime.KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case runtime.KindNumber:
		return formatNumber(v.Num)
	case runtime.KindString:
		return v.Obj.(*runtime.String).Value
	case runtime.KindTable:
		return fmt.Sprintf("table: %p", v.Obj)
	case runtime.KindClosure:
		return fmt.Sprintf("function: %p", v.Obj)
	default:
		return "<unknown>"
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}
