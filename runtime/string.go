package runtime

// String is an immutable interned byte sequence. Identity comparison (the
// *String pointer itself) suffices because the interning table this type
// is paired with (see package strtab) guarantees exactly one *String per
// distinct content.
type String struct {
	objectHeader
	Value string
}

func (s *String) trace(visit func(Object)) {
	// leaf: a String references nothing else on the heap.
}
