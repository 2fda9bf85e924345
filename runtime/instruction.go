package runtime

// Opcode identifies the operation an Instruction performs. Only the
// opcodes the code generator actually emits are defined; the instruction
// set is otherwise open-ended for whichever node lowerings a future
// implementer adds (control flow and upvalue capture, notably).
type Opcode uint8

const (
	OpSetTop Opcode = iota
	OpLoadConst
	OpMove
	OpGetUpTable
	OpCall
)

func (op Opcode) String() string {
	switch op {
	case OpSetTop:
		return "SETTOP"
	case OpLoadConst:
		return "LOADK"
	case OpMove:
		return "MOVE"
	case OpGetUpTable:
		return "GETUPTABLE"
	case OpCall:
		return "CALL"
	default:
		return "UNKNOWN"
	}
}

// ExpValueCountAny is the sentinel meaning "take all produced values"; it
// is valid only in tail position of an ExpressionList and as a call's
// expected-return count (the AsBx-form's sBx field).
const ExpValueCountAny = -1

// Instruction is one operation of this core's instruction set, stored
// unpacked: it is not encoded into a 32-bit word, and each operand is a
// full int32 field. Which of A/B/C are meaningful depends on the Opcode's
// form:
//
//	A-form:    {opcode, A}             e.g. SetTop A
//	AB-form:   {opcode, A, B}          e.g. Move A B
//	ABC-form:  {opcode, A, B, C}       e.g. GetUpTable A B C, LoadConst A B C
//	AsBx-form: {opcode, A, sBx}        e.g. Call A sBx
//
// LoadConst uses C to tag which constant pool B indexes into, so it is
// not an AB-form instruction. The AsBx-form's sBx is stored, signed and
// unbiased, in B. All four forms are represented by the same struct;
// unused fields are zero. Line attributes the instruction to a source
// line for diagnostics.
type Instruction struct {
	Op   Opcode
	A    int32
	B    int32
	C    int32
	Line int
}

// SetTopInst drops the VM's register stack back to r (A-form).
func SetTopInst(r RegisterAddress, line int) Instruction {
	return Instruction{Op: OpSetTop, A: int32(r), Line: line}
}

// ConstNumber and ConstString tag which pool a LoadConst instruction's B
// field indexes into.
const (
	ConstNumber int32 = 0
	ConstString int32 = 1
)

// LoadConstInst loads the constant at constIdx into dst (ABC-form, C
// carries the pool tag): pool selects NumConstants or StrConstants.
func LoadConstInst(dst RegisterAddress, constIdx int, pool int32, line int) Instruction {
	return Instruction{Op: OpLoadConst, A: int32(dst), B: int32(constIdx), C: pool, Line: line}
}

// MoveInst copies the value in src into dst (AB-form).
func MoveInst(dst, src RegisterAddress, line int) Instruction {
	return Instruction{Op: OpMove, A: int32(dst), B: int32(src), Line: line}
}

// GetUpTableInst stores table[key] into dst, where table is an upvalue
// index (ABC-form): GetUpTable dst upvalIdx key.
func GetUpTableInst(dst RegisterAddress, upvalIdx int, keyReg RegisterAddress, line int) Instruction {
	return Instruction{Op: OpGetUpTable, A: int32(dst), B: int32(upvalIdx), C: int32(keyReg), Line: line}
}

// CallInst invokes the closure in register r, expecting resultCount return
// values (ExpValueCountAny for "all of them") (AsBx-form).
func CallInst(r RegisterAddress, resultCount int, line int) Instruction {
	return Instruction{Op: OpCall, A: int32(r), B: int32(resultCount), Line: line}
}
