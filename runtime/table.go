package runtime

import (
	"github.com/dolthub/swiss"
)

// Table is the associative container backing the language's sole
// composite data type. It is GC-managed and born in gen0.
//
// The backing store is a github.com/dolthub/swiss.Map rather than a plain
// Go map: Tables are mutated in the VM's innermost loops (every global
// lookup, every `obj.field` access) and swiss's open-addressing layout
// avoids the bucket-chasing and per-entry allocation a builtin map incurs
// under that workload.
type Table struct {
	objectHeader
	data *swiss.Map[Value, Value]
}

func newTable() *Table {
	return &Table{data: swiss.NewMap[Value, Value](8)}
}

// Get returns the value stored at key, or Nil if key is absent.
func (t *Table) Get(key Value) Value {
	if v, ok := t.data.Get(key); ok {
		return v
	}
	return Nil
}

// Set stores val at key. Because a Table can outlive gen0 (it is promoted
// across minor/major collections exactly like any other object), every
// mutation runs through the GC's write barrier: if this Table is no longer
// in gen0 and val references a heap object, the barrier records the Table
// so the next minor collection treats it as a root. Callers can never
// forget the barrier because there is no other way to mutate a Table.
func (t *Table) Set(gc *GC, key, val Value) {
	if val.IsNil() {
		t.data.Delete(key)
		return
	}
	t.data.Put(key, val)
	gc.SetBarrier(t)
}

// Len reports the number of entries currently stored.
func (t *Table) Len() int {
	return t.data.Count()
}

func (t *Table) trace(visit func(Object)) {
	t.data.Iter(func(k, v Value) bool {
		if o := k.object(); o != nil {
			visit(o)
		}
		if o := v.object(); o != nil {
			visit(o)
		}
		return false
	})
}
