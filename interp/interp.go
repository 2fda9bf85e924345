// Package interp executes the bytecode codegen produces: a flat
// instruction stream operating on a single register window per call, via
// a small dispatch loop over runtime.Value and runtime.Instruction.
package interp

import (
	"github.com/LiCHH/luna/runtime"
)

// Interp holds the live state of one program run: the instruction
// pointer, the active frame, the call stack beneath it, and the global
// environment table every chunk's sole upvalue resolves against. It
// registers itself as the GC's root traveller so collections can see
// every register below Top in every live frame.
type Interp struct {
	gc  *runtime.GC
	env *runtime.Table

	ip        int
	fp        *Frame
	callStack []*Frame
}

// New constructs an Interp bound to gc and env, and wires it in as the
// GC's minor and major root traveller (there is only one traversal rule
// here; unlike MinorGC's barrier shortcut, walking every live register on
// every collection is cheap enough at this interpreter's scale not to
// warrant a faster minor-only path).
func New(gc *runtime.GC, env *runtime.Table) *Interp {
	in := &Interp{gc: gc, env: env}
	gc.SetRootTraveller(in.roots, in.roots)
	return in
}

func (in *Interp) roots(visit func(runtime.Object)) {
	visit(in.env)
	for _, f := range in.callStack {
		visit(f.Closure)
		for _, v := range f.Registers[:f.Top] {
			visitValue(v, visit)
		}
	}
}

func visitValue(v runtime.Value, visit func(runtime.Object)) {
	switch v.Kind {
	case runtime.KindString, runtime.KindTable, runtime.KindClosure:
		if v.Obj != nil {
			visit(v.Obj)
		}
	}
}

// Run executes closure's prototype from instruction 0 to the end of its
// instruction stream. There is no Return opcode in this instruction set
// (lowering a function body other than the top-level chunk is
// unsupported by codegen) so Run always drives exactly one frame to
// completion; Call only ever dispatches into a native (host-implemented)
// closure rather than pushing a second bytecode frame, which is why
// callStack never grows past length 1 today. The field exists so a
// future Return lowering has somewhere to pop.
func (in *Interp) Run(closure *runtime.Closure) error {
	in.fp = newFrame(closure)
	in.callStack = []*Frame{in.fp}
	in.ip = 0

	proto := closure.Prototype
	for in.ip < len(proto.Instructions) {
		inst := proto.Instructions[in.ip]
		in.ip++

		switch inst.Op {
		case runtime.OpSetTop:
			in.fp.Top = int(inst.A)
		case runtime.OpLoadConst:
			if err := in.execLoadConst(proto, inst); err != nil {
				return err
			}
		case runtime.OpMove:
			in.fp.set(runtime.RegisterAddress(inst.A), in.fp.get(runtime.RegisterAddress(inst.B)))
		case runtime.OpGetUpTable:
			if err := in.execGetUpTable(inst); err != nil {
				return err
			}
		case runtime.OpCall:
			if err := in.execCall(inst); err != nil {
				return err
			}
		default:
			return runtimeErrorf(inst.Line, "unknown opcode %d", inst.Op)
		}

		in.gc.CheckGC()
	}

	return nil
}

func (in *Interp) execLoadConst(proto *runtime.Function, inst runtime.Instruction) error {
	dst := runtime.RegisterAddress(inst.A)
	idx := int(inst.B)

	switch inst.C {
	case runtime.ConstNumber:
		if idx < 0 || idx >= len(proto.NumConstants) {
			return runtimeErrorf(inst.Line, "number constant index %d out of range", idx)
		}
		in.fp.set(dst, runtime.NumberValue(proto.NumConstants[idx]))
	case runtime.ConstString:
		if idx < 0 || idx >= len(proto.StrConstants) {
			return runtimeErrorf(inst.Line, "string constant index %d out of range", idx)
		}
		in.fp.set(dst, runtime.StringValue(proto.StrConstants[idx]))
	default:
		return runtimeErrorf(inst.Line, "unknown constant pool tag %d", inst.C)
	}
	return nil
}

func (in *Interp) execGetUpTable(inst runtime.Instruction) error {
	uv := in.fp.Closure.Upvalues[inst.B]
	tableVal := uv.Get()
	if tableVal.Kind != runtime.KindTable {
		return runtimeErrorf(inst.Line, "GetUpTable on a non-table upvalue")
	}
	key := in.fp.get(runtime.RegisterAddress(inst.C))
	result := tableVal.Obj.(*runtime.Table).Get(key)
	in.fp.set(runtime.RegisterAddress(inst.A), result)
	return nil
}

// execCall implements the Call opcode's calling convention: the closure
// sits in register A, its arguments occupy the registers from A+1 up to
// (but not including) the frame's current Top, and the B field is the
// caller's expected result count (ExpValueCountAny for "however many the
// callee returns").
func (in *Interp) execCall(inst runtime.Instruction) error {
	r := runtime.RegisterAddress(inst.A)
	callee := in.fp.get(r)
	if callee.Kind != runtime.KindClosure {
		return runtimeErrorf(inst.Line, "attempt to call a non-function value")
	}
	closure := callee.Obj.(*runtime.Closure)
	proto := closure.Prototype

	var args []runtime.Value
	for i := int(r) + 1; i < in.fp.Top; i++ {
		args = append(args, in.fp.get(runtime.RegisterAddress(i)))
	}

	if proto.Native == nil {
		return runtimeErrorf(inst.Line, "attempt to call a non-native function body, unsupported")
	}
	results := proto.Native(args)

	n := int(inst.B)
	if inst.B == runtime.ExpValueCountAny {
		n = len(results)
	}
	for i := 0; i < n; i++ {
		v := runtime.Nil
		if i < len(results) {
			v = results[i]
		}
		in.fp.set(r+runtime.RegisterAddress(i), v)
	}
	in.fp.Top = int(r) + n

	return nil
}
