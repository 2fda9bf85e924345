package codegen

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/LiCHH/luna/runtime"
)

// Disassemble renders fn's instructions and constant pools to w: a
// per-function listing of instructions first, then the number pool, then
// the string pool, then any nested prototypes (recursively, indented).
func Disassemble(w io.Writer, fn *runtime.Function) {
	disassemble(w, fn, 0)
}

func disassemble(w io.Writer, fn *runtime.Function, depth int) {
	pad := indent(depth)
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s%s <%s:%d> (%d instructions)\n", pad, bold("function"), fn.ModuleName, fn.TopLine, len(fn.Instructions))

	for i, inst := range fn.Instructions {
		fmt.Fprintf(w, "%s  %4d  %s\n", pad, i, formatInstruction(inst))
	}

	if len(fn.NumConstants) > 0 {
		fmt.Fprintf(w, "%s  constants (numbers):\n", pad)
		for i, n := range fn.NumConstants {
			fmt.Fprintf(w, "%s    #%d %v\n", pad, i, n)
		}
	}

	if len(fn.StrConstants) > 0 {
		fmt.Fprintf(w, "%s  constants (strings):\n", pad)
		for i, s := range fn.StrConstants {
			fmt.Fprintf(w, "%s    #%d %q\n", pad, i, s.Value)
		}
	}

	for _, child := range fn.Children {
		disassemble(w, child, depth+1)
	}
}

func formatInstruction(inst runtime.Instruction) string {
	switch inst.Op {
	case runtime.OpSetTop:
		return fmt.Sprintf("%-11s r%d", inst.Op, inst.A)
	case runtime.OpLoadConst:
		pool := "num"
		if inst.C == runtime.ConstString {
			pool = "str"
		}
		return fmt.Sprintf("%-11s r%d, %s#%d", inst.Op, inst.A, pool, inst.B)
	case runtime.OpMove:
		return fmt.Sprintf("%-11s r%d, r%d", inst.Op, inst.A, inst.B)
	case runtime.OpGetUpTable:
		return fmt.Sprintf("%-11s r%d, up%d, r%d", inst.Op, inst.A, inst.B, inst.C)
	case runtime.OpCall:
		if inst.B == runtime.ExpValueCountAny {
			return fmt.Sprintf("%-11s r%d, all", inst.Op, inst.A)
		}
		return fmt.Sprintf("%-11s r%d, %d", inst.Op, inst.A, inst.B)
	default:
		return fmt.Sprintf("unknown opcode %d", inst.Op)
	}
}

func indent(depth int) string {
	out := ""
	for i := 0; i < depth; i++ {
		out += "  "
	}
	return out
}
