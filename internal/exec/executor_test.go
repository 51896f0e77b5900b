package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmlab/wexec/internal/wasm"
)

func constI32Body(v int64) []wasm.Instruction {
	return []wasm.Instruction{{Op: wasm.OpConstI32, Imm: v}}
}

func TestExecutor_NativeConstReturn(t *testing.T) {
	store := wasm.NewStore()
	mAddr := store.AddModule(&wasm.ModuleInstance{})
	fn := &wasm.FunctionInstance{
		ModuleAddr: mAddr,
		Type:       &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32}},
		Kind:       wasm.FunctionKindNative,
		Body:       constI32Body(41),
	}
	fAddr := store.AddFunction(fn)

	exec := NewExecutor(store)
	results, err := exec.Call(fAddr, nil)
	require.NoError(t, err)
	require.Equal(t, []wasm.Value{wasm.Value(41)}, results)
}

func TestExecutor_NativeLocalGetIdentity(t *testing.T) {
	store := wasm.NewStore()
	mAddr := store.AddModule(&wasm.ModuleInstance{})
	fn := &wasm.FunctionInstance{
		ModuleAddr: mAddr,
		Type:       &wasm.FunctionType{Params: []wasm.ValueType{wasm.ValueTypeI32}, Results: []wasm.ValueType{wasm.ValueTypeI32}},
		Kind:       wasm.FunctionKindNative,
		Body: []wasm.Instruction{
			{Op: wasm.OpLocalGet, Imm: 0},
		},
	}
	fAddr := store.AddFunction(fn)

	exec := NewExecutor(store)
	results, err := exec.Call(fAddr, []wasm.Value{wasm.Value(7)})
	require.NoError(t, err)
	require.Equal(t, []wasm.Value{wasm.Value(7)}, results)
}

func TestExecutor_NativeDeclaredLocalsZeroInitialized(t *testing.T) {
	store := wasm.NewStore()
	mAddr := store.AddModule(&wasm.ModuleInstance{})
	fn := &wasm.FunctionInstance{
		ModuleAddr: mAddr,
		Type:       &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32}},
		Kind:       wasm.FunctionKindNative,
		Locals:     []wasm.LocalDecl{{Count: 1, Type: wasm.ValueTypeI32}},
		Body: []wasm.Instruction{
			{Op: wasm.OpLocalGet, Imm: 0},
		},
	}
	fAddr := store.AddFunction(fn)

	exec := NewExecutor(store)
	results, err := exec.Call(fAddr, nil)
	require.NoError(t, err)
	require.Equal(t, []wasm.Value{wasm.Value(0)}, results)
}

func TestExecutor_NativeCallsNative(t *testing.T) {
	store := wasm.NewStore()
	mAddr := store.AddModule(&wasm.ModuleInstance{})

	calleeType := &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32}}
	calleeAddr := store.AddFunction(&wasm.FunctionInstance{
		ModuleAddr: mAddr,
		Type:       calleeType,
		Kind:       wasm.FunctionKindNative,
		Body:       constI32Body(9),
	})

	mod, _ := store.Module(mAddr)
	mod.FunctionAddrs = []wasm.Address{calleeAddr}

	callerAddr := store.AddFunction(&wasm.FunctionInstance{
		ModuleAddr: mAddr,
		Type:       &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32}},
		Kind:       wasm.FunctionKindNative,
		Body: []wasm.Instruction{
			{Op: wasm.OpCall, Imm: 0},
		},
	})

	exec := NewExecutor(store)
	results, err := exec.Call(callerAddr, nil)
	require.NoError(t, err)
	require.Equal(t, []wasm.Value{wasm.Value(9)}, results)
}

func TestExecutor_GlobalGetSet(t *testing.T) {
	store := wasm.NewStore()
	gAddr := store.AddGlobal(&wasm.GlobalInstance{Type: wasm.ValueTypeI32, Mutable: true, Val: wasm.Value(3)})
	mAddr := store.AddModule(&wasm.ModuleInstance{GlobalAddrs: []wasm.Address{gAddr}})

	fn := &wasm.FunctionInstance{
		ModuleAddr: mAddr,
		Type:       &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32}},
		Kind:       wasm.FunctionKindNative,
		Body: []wasm.Instruction{
			{Op: wasm.OpConstI32, Imm: 55},
			{Op: wasm.OpGlobalSet, Imm: 0},
			{Op: wasm.OpGlobalGet, Imm: 0},
		},
	}
	fAddr := store.AddFunction(fn)

	exec := NewExecutor(store)
	results, err := exec.Call(fAddr, nil)
	require.NoError(t, err)
	require.Equal(t, []wasm.Value{wasm.Value(55)}, results)

	g, _ := store.Global(gAddr)
	require.Equal(t, wasm.Value(55), g.Val)
}

// A return_call must land on the callee and produce its result as if the
// caller had returned the callee's value directly, driving OpReturnCall
// through runNative's dispatch loop rather than through PushFrame alone.
func TestExecutor_ReturnCall_TailCallsIntoConst(t *testing.T) {
	store := wasm.NewStore()
	mAddr := store.AddModule(&wasm.ModuleInstance{})

	calleeAddr := store.AddFunction(&wasm.FunctionInstance{
		ModuleAddr: mAddr,
		Type:       &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32}},
		Kind:       wasm.FunctionKindNative,
		Body:       constI32Body(42),
	})

	mod, _ := store.Module(mAddr)
	mod.FunctionAddrs = []wasm.Address{calleeAddr}

	callerAddr := store.AddFunction(&wasm.FunctionInstance{
		ModuleAddr: mAddr,
		Type:       &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32}},
		Kind:       wasm.FunctionKindNative,
		Body: []wasm.Instruction{
			{Op: wasm.OpReturnCall, Imm: 0},
		},
	})

	stacks := NewStacks()
	exec := NewExecutor(store)
	results, err := exec.CallWith(stacks, callerAddr, nil)
	require.NoError(t, err)
	require.Equal(t, []wasm.Value{wasm.Value(42)}, results)

	require.Equal(t, 1, len(stacks.Frames), "the tail call must not leave the caller's frame behind")
	require.Equal(t, 0, stacks.OperandHeight())
	require.Equal(t, 0, stacks.LabelHeight())
}

func TestExecutor_CallIndirect_UninitializedElementTraps(t *testing.T) {
	store := wasm.NewStore()
	tAddr := store.AddTable(&wasm.TableInstance{Elements: []wasm.TableElement{{}}})
	mAddr := store.AddModule(&wasm.ModuleInstance{
		TableAddrs: []wasm.Address{tAddr},
		Types:      []*wasm.FunctionType{{}},
	})

	fn := &wasm.FunctionInstance{
		ModuleAddr: mAddr,
		Type:       &wasm.FunctionType{},
		Kind:       wasm.FunctionKindNative,
		Body: []wasm.Instruction{
			{Op: wasm.OpConstI32, Imm: 0},
			{Op: wasm.OpCallIndirect, Imm: 0},
		},
	}
	fAddr := store.AddFunction(fn)

	exec := NewExecutor(store)
	_, err := exec.Call(fAddr, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, TrapKindError(TrapUninitializedElement))
}

func TestExecutor_Unreachable_Traps(t *testing.T) {
	store := wasm.NewStore()
	mAddr := store.AddModule(&wasm.ModuleInstance{})
	fn := &wasm.FunctionInstance{
		ModuleAddr: mAddr,
		Type:       &wasm.FunctionType{},
		Kind:       wasm.FunctionKindNative,
		Body:       []wasm.Instruction{{Op: wasm.OpUnreachable}},
	}
	fAddr := store.AddFunction(fn)

	exec := NewExecutor(store)
	_, err := exec.Call(fAddr, nil)
	require.ErrorIs(t, err, TrapKindError(TrapUnreachable))
}
