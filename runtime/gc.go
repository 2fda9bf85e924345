package runtime

// minThreshold is the floor the threshold-adaptation formula will never go
// below, even if a generation's alive count collapses to zero; it keeps a
// degenerate program (one that allocates almost nothing) from triggering a
// collection on every single allocation.
const minThreshold = 64

const initialGen0Threshold = 512
const initialGen1Threshold = 512

// genInfo is one of the three generation buckets: a singly-linked list of
// Objects (via objectHeader.next), how many it currently holds, and the
// allocation count at which CheckGC should collect it.
type genInfo struct {
	head      Object
	count     int
	threshold int
}

// RootTraveller is a callback the interpreter registers so the collector
// can enumerate its roots (the operand stack, the global environment
// table, any other live frames) without the GC package knowing anything
// about frames or stacks. The traveller calls visit once per root Object
// it wants kept alive.
type RootTraveller func(visit func(Object))

// GC owns every heap object in the runtime: three generations plus the
// write-barrier queue recording old objects that may now reference young
// ones. Collection is synchronous and non-reentrant; it only ever runs
// inside CheckGC, which the interpreter calls between bytecode
// instructions.
type GC struct {
	gens [3]genInfo

	barrierQueue []Object
	barriered    map[Object]bool

	minorTraveller RootTraveller
	majorTraveller RootTraveller
}

// New constructs a GC with empty generations and the default initial
// thresholds (gen0 = gen1 = 512; gen2 is never throttled).
func New() *GC {
	gc := &GC{}
	gc.gens[Gen0] = genInfo{threshold: initialGen0Threshold}
	gc.gens[Gen1] = genInfo{threshold: initialGen1Threshold}
	gc.gens[Gen2] = genInfo{threshold: 0}
	return gc
}

// SetRootTraveller registers the callbacks used to enumerate roots during
// minor and major collections respectively.
func (gc *GC) SetRootTraveller(minor, major RootTraveller) {
	gc.minorTraveller = minor
	gc.majorTraveller = major
}

func (gc *GC) link(obj Object, gen Generation) {
	h := obj.header()
	h.generation = gen
	h.colour = white
	gi := &gc.gens[gen]
	h.next = gi.head
	gi.head = obj
	gi.count++
}

// NewTable allocates a fresh Table in gen0.
func (gc *GC) NewTable() *Table {
	t := newTable()
	gc.link(t, Gen0)
	return t
}

// NewString allocates a fresh interned String in gen0. Callers are
// expected to go through a single intern table (see package strtab) so
// that identity comparison is valid; the GC itself does not deduplicate.
func (gc *GC) NewString(s string) *String {
	str := &String{Value: s}
	gc.link(str, Gen0)
	return str
}

// NewClosure allocates a fresh Closure in gen0.
func (gc *GC) NewClosure(proto *Function) *Closure {
	c := newClosure(proto)
	gc.link(c, Gen0)
	return c
}

// NewFunction allocates a fresh Function prototype in gen2 (prototypes are
// effectively immutable after code generation and are referenced across
// generations from birth, so there is nothing a minor collection could
// usefully reclaim by keeping them young).
func (gc *GC) NewFunction(moduleName string, topLine int, superior *Function) *Function {
	f := &Function{ModuleName: moduleName, TopLine: topLine, Superior: superior}
	gc.link(f, Gen2)
	if superior != nil {
		superior.AddChild(f)
	}
	return f
}

// SetBarrier records obj as mutated-since-last-minor-collection so the
// next minor GC treats it as a root. Only meaningful for obj not in gen0
// (a gen0 object is already a natural candidate for minor roots via
// whatever container holds it); calling it on a gen0 object is a no-op.
// Duplicate registrations are harmless (the caller does not need to check
// membership itself).
func (gc *GC) SetBarrier(obj Object) {
	if obj == nil {
		return
	}
	if obj.header().generation == Gen0 {
		return
	}
	if gc.barriered == nil {
		gc.barriered = make(map[Object]bool)
	}
	if gc.barriered[obj] {
		return
	}
	gc.barriered[obj] = true
	gc.barrierQueue = append(gc.barrierQueue, obj)
}

// CheckGC triggers a collection if either generation's allocation count
// has crossed its threshold. gen1 pressure escalates straight to a major
// collection: if minor collections aren't promoting gen1 out fast enough,
// only a full trace can tell what's actually still reachable.
func (gc *GC) CheckGC() {
	if gc.gens[Gen1].count >= gc.gens[Gen1].threshold && gc.gens[Gen1].threshold > 0 {
		gc.MajorGC()
		return
	}
	if gc.gens[Gen0].count >= gc.gens[Gen0].threshold {
		gc.MinorGC()
	}
}

// MinorGC marks and sweeps gen0 only. Roots are the minor traveller's
// visitations plus every object already in the barrier queue
// (itself treated as a root, since it may point into gen0). The mark
// visitor colours reachable gen0 objects black; when it reaches an object
// outside gen0, it recurses into that object's own children only if the
// object is in the barrier queue, otherwise it stops there, trusting that
// a non-barriered old object cannot reference anything in gen0.
func (gc *GC) MinorGC() {
	visited := make(map[Object]bool)

	var mark func(o Object)
	mark = func(o Object) {
		if o == nil || visited[o] {
			return
		}
		h := o.header()
		if h.generation != Gen0 && !gc.barriered[o] {
			visited[o] = true
			return
		}
		visited[o] = true
		if h.generation == Gen0 {
			h.colour = black
		}
		o.trace(mark)
	}

	if gc.minorTraveller != nil {
		gc.minorTraveller(mark)
	}
	for _, o := range gc.barrierQueue {
		mark(o)
	}

	// Sweep gen0: black objects are promoted to gen1 and reset to white;
	// white objects are dropped (the underlying Go allocation is reclaimed
	// by Go's own collector once nothing references it anymore).
	gen0 := &gc.gens[Gen0]
	gen1 := &gc.gens[Gen1]

	cur := gen0.head
	gen0.head = nil
	alive := 0
	for cur != nil {
		h := cur.header()
		next := h.next
		if h.colour == black {
			h.colour = white
			h.generation = Gen1
			h.next = gen1.head
			gen1.head = cur
			gen1.count++
			alive++
		}
		cur = next
	}
	gen0.count = 0
	gen0.threshold = adaptedThreshold(alive)

	gc.barrierQueue = nil
	gc.barriered = nil
}

// MajorGC marks and sweeps all three generations. The major traveller's
// roots are traced without the barrier-queue shortcut: every
// reachable object, in any generation, is coloured black regardless of
// what put it there.
func (gc *GC) MajorGC() {
	visited := make(map[Object]bool)

	var mark func(o Object)
	mark = func(o Object) {
		if o == nil || visited[o] {
			return
		}
		visited[o] = true
		o.header().colour = black
		o.trace(mark)
	}

	if gc.majorTraveller != nil {
		gc.majorTraveller(mark)
	}

	gen0Alive := gc.sweepInPlace(Gen0)
	gen2Alive := gc.sweepInPlace(Gen2)
	gen1Promoted := gc.sweepPromote(Gen1, Gen2)

	gc.gens[Gen0].threshold = adaptedThreshold(gen0Alive)
	gc.gens[Gen1].threshold = adaptedThreshold(0)
	gc.gens[Gen2].count = gen2Alive + gen1Promoted
	gc.gens[Gen2].threshold = 0

	gc.barrierQueue = nil
	gc.barriered = nil
}

// sweepInPlace sweeps generation gen without promoting survivors,
// returning the number that survived.
func (gc *GC) sweepInPlace(gen Generation) int {
	gi := &gc.gens[gen]
	cur := gi.head
	gi.head = nil
	alive := 0
	for cur != nil {
		h := cur.header()
		next := h.next
		if h.colour == black {
			h.colour = white
			h.next = gi.head
			gi.head = cur
			alive++
		}
		cur = next
	}
	gi.count = alive
	return alive
}

// sweepPromote sweeps generation from, moving every surviving object into
// generation to and returning how many survived.
func (gc *GC) sweepPromote(from, to Generation) int {
	src := &gc.gens[from]
	dst := &gc.gens[to]

	cur := src.head
	src.head = nil
	promoted := 0
	for cur != nil {
		h := cur.header()
		next := h.next
		if h.colour == black {
			h.colour = white
			h.generation = to
			h.next = dst.head
			dst.head = cur
			promoted++
		}
		cur = next
	}
	src.count = 0
	return promoted
}

func adaptedThreshold(alive int) int {
	t := 2 * alive
	if t < minThreshold {
		return minThreshold
	}
	return t
}

// GenerationCounts reports the live object count in gen0/gen1/gen2, for
// diagnostics (the CLI's --debug-gc flag) and for tests asserting
// collection behavior.
func (gc *GC) GenerationCounts() (gen0, gen1, gen2 int) {
	return gc.gens[Gen0].count, gc.gens[Gen1].count, gc.gens[Gen2].count
}
