package interp

import (
	"github.com/LiCHH/luna/runtime"
)

// Frame is one call's register window: a Closure plus a flat Registers
// array, sized in runtime.Value, and carrying Top: the interpreter's live
// mirror of the code generator's compile-time register watermark,
// maintained the same way (bumped by every register write, reset
// wholesale by SetTop).
type Frame struct {
	Closure   *runtime.Closure
	Registers []runtime.Value
	Top       int
}

func newFrame(closure *runtime.Closure) *Frame {
	return &Frame{Closure: closure, Registers: make([]runtime.Value, 8)}
}

func (f *Frame) get(r runtime.RegisterAddress) runtime.Value {
	i := int(r)
	if i >= len(f.Registers) {
		return runtime.Nil
	}
	return f.Registers[i]
}

func (f *Frame) set(r runtime.RegisterAddress, v runtime.Value) {
	i := int(r)
	for i >= len(f.Registers) {
		f.Registers = append(f.Registers, runtime.Nil)
	}
	f.Registers[i] = v
	if i+1 > f.Top {
		f.Top = i + 1
	}
}
