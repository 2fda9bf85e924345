// Package strtab provides the single program-wide string interner. Every
// distinct source string (identifier name, string literal, table key)
// passes through here exactly once, so that runtime.String values can be
// compared by pointer identity rather than content.
//
// The interner is keyed on string content and backed by a plain Go map
// rather than swiss: the interner is only ever touched
// at parse/codegen time, never from the VM's hot path, so there is
// nothing here for swiss's open-addressing layout to win back.
package strtab

import "github.com/LiCHH/luna/runtime"

// Interner holds the one *runtime.String per distinct content invariant
// that identity comparison throughout the runtime package depends on.
type Interner struct {
	gc      *runtime.GC
	entries map[string]*runtime.String
}

// New constructs an Interner that allocates through gc.
func New(gc *runtime.GC) *Interner {
	return &Interner{
		gc:      gc,
		entries: make(map[string]*runtime.String),
	}
}

// Intern returns the canonical *runtime.String for s, allocating one on
// first sight and returning the existing entry on every subsequent call.
func (in *Interner) Intern(s string) *runtime.String {
	if existing, ok := in.entries[s]; ok {
		return existing
	}
	str := in.gc.NewString(s)
	in.entries[s] = str
	return str
}

// Len reports how many distinct strings have been interned so far.
func (in *Interner) Len() int {
	return len(in.entries)
}
