package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiCHH/luna/runtime"
)

// An object reachable only from a root survives a minor collection and is
// promoted from gen0 into gen1.
func TestMinorGC_PromotesReachable(t *testing.T) {
	gc := runtime.New()
	root := gc.NewTable()

	var kept *runtime.Table
	gc.SetRootTraveller(func(visit func(runtime.Object)) {
		visit(root)
	}, nil)

	kept = gc.NewTable()
	root.Set(gc, runtime.NumberValue(1), runtime.TableValue(kept))

	gc.MinorGC()

	gen0, gen1, _ := gc.GenerationCounts()
	assert.Equal(t, 0, gen0)
	assert.Equal(t, 2, gen1, "both root and the table it references survive into gen1")
}

// Once promoted into gen1, a surviving object stays there across further
// minor collections: only a major collection promotes gen1 into gen2.
func TestMinorGC_NoSecondPromotionWithoutMajor(t *testing.T) {
	gc := runtime.New()
	root := gc.NewTable()
	gc.SetRootTraveller(func(visit func(runtime.Object)) {
		visit(root)
	}, nil)

	gc.MinorGC()
	_, gen1Before, _ := gc.GenerationCounts()
	require.Equal(t, 1, gen1Before)

	gc.MinorGC()
	gen0, gen1After, gen2 := gc.GenerationCounts()
	assert.Equal(t, 0, gen0)
	assert.Equal(t, 1, gen1After, "a second minor collection leaves gen1 untouched")
	assert.Equal(t, 0, gen2, "no object has moved into gen2 without a major collection")
}

// An object with no path from any root is reclaimed by the next minor
// collection.
func TestMinorGC_DropsUnreachable(t *testing.T) {
	gc := runtime.New()
	gc.SetRootTraveller(func(visit func(runtime.Object)) {}, nil)

	gc.NewTable()
	gc.MinorGC()

	gen0, gen1, _ := gc.GenerationCounts()
	assert.Equal(t, 0, gen0)
	assert.Equal(t, 0, gen1)
}

// A gen2 (old) table mutated to point at a gen0 object must be barriered,
// or the next minor collection (which never walks unbarriered old
// objects) would wrongly reclaim the young referent.
func TestMinorGC_WriteBarrierKeepsYoungReferentAlive(t *testing.T) {
	gc := runtime.New()
	old := gc.NewFunction("m", 0, nil) // born directly in gen2

	gc.SetRootTraveller(func(visit func(runtime.Object)) {}, nil)

	str := gc.NewString("barriered")
	old.StrConstants = append(old.StrConstants, str)
	gc.SetBarrier(old)

	gc.MinorGC()

	gen0, gen1, _ := gc.GenerationCounts()
	assert.Equal(t, 0, gen0)
	assert.Equal(t, 1, gen1, "the barriered gen2 function's string constant survives the minor collection")
}

// A major collection promotes every surviving gen1 object to gen2 and
// leaves survivors of gen0/gen2 in place (their generation is unchanged,
// only their liveness is re-evaluated).
func TestMajorGC_PromotesGen1AndSweepsInPlace(t *testing.T) {
	gc := runtime.New()
	root := gc.NewTable()

	roots := func(visit func(runtime.Object)) {
		visit(root)
	}
	gc.SetRootTraveller(roots, roots)

	young := gc.NewTable()
	root.Set(gc, runtime.NumberValue(1), runtime.TableValue(young))

	gc.MinorGC() // promotes root and young into gen1

	gc.MajorGC()

	gen0, gen1, gen2 := gc.GenerationCounts()
	assert.Equal(t, 0, gen0)
	assert.Equal(t, 0, gen1)
	assert.Equal(t, 2, gen2)
}

// CheckGC escalates straight to a major collection once gen1 crosses its
// threshold, rather than waiting for gen0 pressure too: a first batch of
// 512 allocations crosses gen0's threshold and minor-collects into gen1,
// which now sits above gen1's own threshold; the very next CheckGC call
// must see that and run a major collection instead of another minor one.
// The major collection sweeps gen0 in place, so the child allocated just
// before it stays in gen0, joined by the one allocated in the last
// iteration.
func TestCheckGC_Gen1PressureEscalatesToMajor(t *testing.T) {
	gc := runtime.New()
	root := gc.NewTable()
	gc.SetRootTraveller(func(visit func(runtime.Object)) {
		visit(root)
	}, func(visit func(runtime.Object)) {
		visit(root)
	})

	for i := 0; i < 513; i++ {
		child := gc.NewTable()
		root.Set(gc, runtime.NumberValue(float64(i)), runtime.TableValue(child))
		gc.CheckGC()
	}

	gen0, gen1, gen2 := gc.GenerationCounts()
	require.Equal(t, 0, gen1, "gen1 pressure should have escalated into a major collection by now")
	assert.Equal(t, 2, gen0)
	assert.True(t, gen2 > 0, "the major collection promoted gen1's survivors into gen2")
}
