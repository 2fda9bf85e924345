package stdlib_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LiCHH/luna/runtime"
	"github.com/LiCHH/luna/stdlib"
	"github.com/LiCHH/luna/strtab"
)

func TestToString(t *testing.T) {
	gc := runtime.New()
	str := gc.NewString("hi")

	assert.Equal(t, "nil", stdlib.ToString(runtime.Nil))
	assert.Equal(t, "true", stdlib.ToString(runtime.BoolValue(true)))
	assert.Equal(t, "false", stdlib.ToString(runtime.BoolValue(false)))
	assert.Equal(t, "3", stdlib.ToString(runtime.NumberValue(3)))
	assert.Equal(t, "3.5", stdlib.ToString(runtime.NumberValue(3.5)))
	assert.Equal(t, "hi", stdlib.ToString(runtime.StringValue(str)))
}

func TestInstall_PrintIsCallableFromGlobalTable(t *testing.T) {
	gc := runtime.New()
	interner := strtab.New(gc)
	env := gc.NewTable()
	stdlib.Install(gc, interner, env)

	key := runtime.StringValue(interner.Intern("print"))
	got := env.Get(key)
	assert.Equal(t, runtime.KindClosure, got.Kind)

	var out bytes.Buffer
	restore := stdlib.RedirectStdout(&out)
	defer restore()

	closure := got.Obj.(*runtime.Closure)
	closure.Prototype.Native([]runtime.Value{runtime.NumberValue(7)})
	assert.Equal(t, "7\n", out.String())
}
