package exec

import "github.com/wasmlab/wexec/internal/wasm"

// resolve is the shape every get_X_by_index operation shares (spec.md
// Sec. 4.1): check the sentinel, look up the active module, translate the
// local index through its index space, and dereference the store address.
// None of the four failure modes is an error from here; the opcode that
// called us turns a false ok into its own trap.
func resolve(store *wasm.Store, stacks *Stacks, localIndex int, indexSpace func(*wasm.ModuleInstance) []wasm.Address, deref func(wasm.Address) bool) bool {
	if stacks.IsSentinelActive() {
		return false
	}
	mod, ok := store.Module(stacks.CurrentFrame().ModuleAddr)
	if !ok {
		// Invariant violation: frames must reference live modules.
		panic("exec: active frame references a module that is not in the store")
	}
	addrs := indexSpace(mod)
	if localIndex < 0 || localIndex >= len(addrs) {
		return false
	}
	addr := addrs[localIndex]
	if addr == wasm.NoAddress {
		return false
	}
	return deref(addr)
}

// ResolveTable returns the table instance at local index idx in the active
// module, or (nil, false) if the sentinel is active or the index is
// unresolved.
func ResolveTable(store *wasm.Store, stacks *Stacks, idx int) (*wasm.TableInstance, bool) {
	var out *wasm.TableInstance
	ok := resolve(store, stacks, idx,
		func(m *wasm.ModuleInstance) []wasm.Address { return m.TableAddrs },
		func(addr wasm.Address) bool {
			t, ok := store.Table(addr)
			out = t
			return ok
		})
	return out, ok
}

// ResolveMemory returns the memory instance at local index idx in the
// active module.
func ResolveMemory(store *wasm.Store, stacks *Stacks, idx int) (*wasm.MemoryInstance, bool) {
	var out *wasm.MemoryInstance
	ok := resolve(store, stacks, idx,
		func(m *wasm.ModuleInstance) []wasm.Address { return m.MemoryAddrs },
		func(addr wasm.Address) bool {
			mem, ok := store.Memory(addr)
			out = mem
			return ok
		})
	return out, ok
}

// ResolveGlobal returns the global instance at local index idx in the
// active module.
func ResolveGlobal(store *wasm.Store, stacks *Stacks, idx int) (*wasm.GlobalInstance, bool) {
	var out *wasm.GlobalInstance
	ok := resolve(store, stacks, idx,
		func(m *wasm.ModuleInstance) []wasm.Address { return m.GlobalAddrs },
		func(addr wasm.Address) bool {
			g, ok := store.Global(addr)
			out = g
			return ok
		})
	return out, ok
}

// ResolveElement returns the element instance at local index idx in the
// active module.
func ResolveElement(store *wasm.Store, stacks *Stacks, idx int) (*wasm.ElementInstance, bool) {
	var out *wasm.ElementInstance
	ok := resolve(store, stacks, idx,
		func(m *wasm.ModuleInstance) []wasm.Address { return m.ElementAddrs },
		func(addr wasm.Address) bool {
			e, ok := store.Element(addr)
			out = e
			return ok
		})
	return out, ok
}

// ResolveData returns the data instance at local index idx in the active
// module.
func ResolveData(store *wasm.Store, stacks *Stacks, idx int) (*wasm.DataInstance, bool) {
	var out *wasm.DataInstance
	ok := resolve(store, stacks, idx,
		func(m *wasm.ModuleInstance) []wasm.Address { return m.DataAddrs },
		func(addr wasm.Address) bool {
			d, ok := store.Data(addr)
			out = d
			return ok
		})
	return out, ok
}
