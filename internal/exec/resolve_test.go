package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmlab/wexec/internal/wasm"
)

func setupModuleWithGlobal(t *testing.T, store *wasm.Store, val wasm.Value) (wasm.Address, wasm.Address) {
	t.Helper()
	gAddr := store.AddGlobal(&wasm.GlobalInstance{Type: wasm.ValueTypeI32, Val: val})
	mAddr := store.AddModule(&wasm.ModuleInstance{GlobalAddrs: []wasm.Address{gAddr}})
	return mAddr, gAddr
}

func TestResolveGlobal_SentinelReturnsFalse(t *testing.T) {
	store := wasm.NewStore()
	stacks := NewStacks()
	_, ok := ResolveGlobal(store, stacks, 0)
	require.False(t, ok)
}

func TestResolveGlobal_ValidIndex(t *testing.T) {
	store := wasm.NewStore()
	stacks := NewStacks()
	mAddr, _ := setupModuleWithGlobal(t, store, wasm.Value(7))
	require.NoError(t, stacks.PushFrame(mAddr, 0, 0, false, 0))

	g, ok := ResolveGlobal(store, stacks, 0)
	require.True(t, ok)
	require.Equal(t, wasm.Value(7), g.Val)
}

func TestResolveGlobal_OutOfRangeIndex(t *testing.T) {
	store := wasm.NewStore()
	stacks := NewStacks()
	mAddr, _ := setupModuleWithGlobal(t, store, wasm.Value(7))
	require.NoError(t, stacks.PushFrame(mAddr, 0, 0, false, 0))

	_, ok := ResolveGlobal(store, stacks, 3)
	require.False(t, ok)
}

func TestResolveGlobal_NoAddressSlot(t *testing.T) {
	store := wasm.NewStore()
	stacks := NewStacks()
	mAddr := store.AddModule(&wasm.ModuleInstance{GlobalAddrs: []wasm.Address{wasm.NoAddress}})
	require.NoError(t, stacks.PushFrame(mAddr, 0, 0, false, 0))

	_, ok := ResolveGlobal(store, stacks, 0)
	require.False(t, ok)
}

func TestResolve_PanicsOnDanglingModuleAddr(t *testing.T) {
	store := wasm.NewStore()
	stacks := NewStacks()
	require.NoError(t, stacks.PushFrame(wasm.Address(99), 0, 0, false, 0))

	require.Panics(t, func() { ResolveGlobal(store, stacks, 0) })
}
