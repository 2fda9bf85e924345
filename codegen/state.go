package codegen

import (
	"github.com/LiCHH/luna/runtime"
	"github.com/LiCHH/luna/strtab"
)

// ENVUpvalueIndex is the upvalue slot every generated prototype's closure
// reserves for the global environment table.
const ENVUpvalueIndex = 0

// State is the generator's entry point dependency bundle: the GC that
// owns every object it allocates, the string interner so identifier and
// literal strings become canonical *runtime.String constants, and the
// global environment table resolved identifiers fall back to.
type State struct {
	GC       *runtime.GC
	Interner *strtab.Interner
	Env      *runtime.Table
}

// funcState is the per-function generation state pushed on entering a
// Chunk or FunctionBody and popped on exit. It owns the flat scope name
// list, the active scope-record stack, the pending-names buffer a
// declaring statement drains, and the two value-count stacks that are the
// sole communication channel between expression visit sites.
type funcState struct {
	proto  *runtime.Function
	parent *funcState

	names   []nameEntry
	scopes  *scopeRecord
	pending []nameEntry

	expValueCount     []int
	expListValueCount []int
}

func newFuncState(proto *runtime.Function, parent *funcState) *funcState {
	return &funcState{proto: proto, parent: parent}
}

func (fs *funcState) pushExpValueCount(v int) {
	fs.expValueCount = append(fs.expValueCount, v)
}

func (fs *funcState) popExpValueCount() int {
	n := len(fs.expValueCount)
	v := fs.expValueCount[n-1]
	fs.expValueCount = fs.expValueCount[:n-1]
	return v
}

func (fs *funcState) pushExpListValueCount(v int) {
	fs.expListValueCount = append(fs.expListValueCount, v)
}

func (fs *funcState) popExpListValueCount() int {
	n := len(fs.expListValueCount)
	v := fs.expListValueCount[n-1]
	fs.expListValueCount = fs.expListValueCount[:n-1]
	return v
}
