package codegen

import (
	"github.com/LiCHH/luna/runtime"
)

// nameEntry is one (name, register) binding in a function's flat scope name
// list.
type nameEntry struct {
	name     string
	register runtime.RegisterAddress
}

// scopeRecord is one frame of the linked scope-record stack. Entering a
// scope pushes a record capturing where in the owning function's flat name
// list this scope's bindings begin; exiting truncates the list back to
// start, releasing every binding (and its register) the scope introduced.
type scopeRecord struct {
	prev  *scopeRecord
	owner *funcState
	start int
}

// enterScope pushes a new scope owned by fs and returns it so the caller can
// pass it to exitScope on every exit path.
func (fs *funcState) enterScope() *scopeRecord {
	rec := &scopeRecord{prev: fs.scopes, owner: fs, start: len(fs.names)}
	fs.scopes = rec
	return rec
}

// exitScope truncates the owning function's name list back to where rec
// began and pops the scope stack. This must run on every exit path,
// including error unwinding; callers should invoke it via defer.
func (fs *funcState) exitScope(rec *scopeRecord) {
	fs.names = fs.names[:rec.start]
	fs.scopes = rec.prev
}

// lookupLocal resolves name against the currently active scopes of fs,
// innermost first. It does not cross into an enclosing function; callers
// needing that resolve the upvalue case themselves (currently
// unsupported).
func (fs *funcState) lookupLocal(name string) (runtime.RegisterAddress, bool) {
	for i := len(fs.names) - 1; i >= 0; i-- {
		if fs.names[i].name == name {
			return fs.names[i].register, true
		}
	}
	return 0, false
}

// declareInScope implements the per-name binding rule for a name list: if
// name already exists within the *current* scope (at or after its start
// index), its register is reused and the watermark is untouched;
// otherwise a fresh register is bumped. Either way the binding is appended
// to the pending-names buffer for the declaring statement to drain.
func (fs *funcState) declareInScope(rec *scopeRecord, name string) runtime.RegisterAddress {
	for i := rec.start; i < len(fs.names); i++ {
		if fs.names[i].name == name {
			fs.pending = append(fs.pending, fs.names[i])
			return fs.names[i].register
		}
	}
	reg := fs.proto.AllocaNextRegister()
	entry := nameEntry{name: name, register: reg}
	fs.names = append(fs.names, entry)
	fs.pending = append(fs.pending, entry)
	return reg
}
