package exec

import "github.com/wasmlab/wexec/internal/wasm"

// BlockArity decodes a block type into (locals-to-preserve, arity), per
// spec.md Sec. 4.2. For a direct value-type, there are no locals to
// preserve and the arity is 0 or 1. For a type index, both counts come
// from the active module's type section, mirroring the reference
// executor's getBlockArity.
func BlockArity(store *wasm.Store, stacks *Stacks, bt wasm.BlockType) (localsOnEntry, arityOnExit int, err error) {
	if !bt.IsIndex {
		if bt.HasValue {
			return 0, 1, nil
		}
		return 0, 0, nil
	}
	mod, ok := store.Module(stacks.CurrentFrame().ModuleAddr)
	if !ok {
		panic("exec: active frame references a module that is not in the store")
	}
	if int(bt.Index) >= len(mod.Types) {
		return 0, 0, NewTrap(TrapExecutionFailed, nil)
	}
	ft := mod.Types[bt.Index]
	return len(ft.Params), len(ft.Results), nil
}
