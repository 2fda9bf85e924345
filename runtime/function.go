package runtime

// RegisterAddress is a dense index into a call frame's register array.
type RegisterAddress int32

// Function is an immutable function prototype: instructions, constants,
// nested prototypes and parameter count. Prototypes are effectively
// immutable once code generation finishes and are referenced from
// closures that may long outlive the function that created them, so a
// Function is born directly in gen2 rather than gen0. There would be
// nothing to gain from ever minor-collecting it.
type Function struct {
	objectHeader

	ModuleName string
	TopLine    int
	ParamCount int

	// Superior is the enclosing function this prototype was generated
	// inside of, or nil for a top-level chunk's prototype.
	Superior *Function
	Children []*Function

	Instructions []Instruction
	NumConstants []float64
	StrConstants []*String
	Upvalues     []UpvalueDescriptor

	// Native, when non-nil, marks this prototype as a host-implemented
	// builtin (e.g. stdlib's print): the interpreter calls it directly
	// with the argument registers instead of stepping Instructions, which
	// is empty for a native prototype.
	Native func(args []Value) []Value

	// nextRegister is the code generator's bump-allocator watermark. It
	// has no meaning once generation finishes and the prototype starts
	// being executed.
	nextRegister RegisterAddress
}

// GetNextRegister peeks the current register watermark without reserving
// it.
func (f *Function) GetNextRegister() RegisterAddress {
	return f.nextRegister
}

// AllocaNextRegister reserves the current watermark register and bumps the
// watermark by one.
func (f *Function) AllocaNextRegister() RegisterAddress {
	r := f.nextRegister
	f.nextRegister++
	return r
}

// SetNextRegister restores the watermark, releasing any registers at or
// above r that were reserved for temporaries. Used at every scope and
// statement boundary to keep the watermark conserved once temporaries
// fall out of use.
func (f *Function) SetNextRegister(r RegisterAddress) {
	f.nextRegister = r
}

// InternNumber adds n to this prototype's number constant pool, reusing an
// existing entry if n was already interned.
func (f *Function) InternNumber(n float64) int {
	for i, existing := range f.NumConstants {
		if existing == n {
			return i
		}
	}
	f.NumConstants = append(f.NumConstants, n)
	return len(f.NumConstants) - 1
}

// InternString adds an interned *String to this prototype's string
// constant pool, reusing an existing entry if the same *String (by
// identity; the program-wide interner already guarantees one *String per
// distinct content) was already added.
//
// Because a Function lives in gen2 from birth, appending to StrConstants
// is a store of a (typically gen0) String reference into an old object:
// the caller is responsible for barriering f via gc.SetBarrier after
// calling InternString, exactly as Table.Set barriers itself on mutation.
func (f *Function) InternString(s *String) int {
	for i, existing := range f.StrConstants {
		if existing == s {
			return i
		}
	}
	f.StrConstants = append(f.StrConstants, s)
	return len(f.StrConstants) - 1
}

// AddChild registers a nested Function prototype (from a FunctionBody or
// FunctionDecl lowered inside this function) and returns its index in the
// child prototype list.
func (f *Function) AddChild(child *Function) int {
	child.Superior = f
	f.Children = append(f.Children, child)
	return len(f.Children) - 1
}

func (f *Function) trace(visit func(Object)) {
	for _, child := range f.Children {
		visit(child)
	}
	for _, s := range f.StrConstants {
		visit(s)
	}
}
