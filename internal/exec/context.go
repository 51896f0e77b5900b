package exec

import (
	"unsafe"

	"github.com/wasmlab/wexec/internal/wasm"
)

// Trampoline is the concrete signature behind wasm.FunctionInstance's
// opaque Wrapper field (spec.md Sec. 4.4 "Compiled callee"): it receives
// the execution context, the entry symbol, and argument/result buffers.
type Trampoline func(ctx *ExecutionContext, entry wasm.CompiledSymbol, args, results []wasm.Value) error

// ExecutionContext is the plain record AOT-compiled code reads to find its
// memory and globals, per spec.md Sec. 4.5. It is refreshed on every
// compiled-function entry and is only valid while the frame that refreshed
// it remains active; on return its pointers become stale but unreferenced.
//
// GlobalsBase points at a []*wasm.Value — one live pointer per global, in
// local-index order — not at a copy of the values themselves. Compiled
// code indexes it as an array of pointers and dereferences the one it
// wants, the same two-step `moduleContextOpaque`-style global access the
// teacher's wazevo backend generates; a write through the dereferenced
// pointer lands on the GlobalInstance the Store itself owns, so it's
// visible to global.get and to the next call's Refresh alike.
type ExecutionContext struct {
	MemoryBase  unsafe.Pointer
	GlobalsBase unsafe.Pointer

	// CurrentStore lets host imports called back from compiled code
	// recover the active store, without every compiled call site needing
	// to thread it through explicitly. spec.md Sec. 9 flags the
	// reference's process-wide "current store" pointer as global mutable
	// state to re-architect; we scope it to the ExecutionContext instead
	// of a bare package variable, per SPEC_FULL.md's resolution of that
	// design note.
	CurrentStore *wasm.Store
}

// Refresh sets the memory-base and globals-array pointers from the
// callee's module instance, as spec.md Sec. 4.4 requires before every
// compiled-function invocation. memory may be nil if the module has none;
// MemoryBase is then nil too, and compiled code is responsible for
// checking that before dereferencing (the same contract the reference
// executor's ExecutionContext.Memory has with AOT-generated code). globals
// is the module's live pointer view (ModuleInstance.GlobalsView), not a
// snapshot, so GlobalsBase stays a window onto the Store's own globals
// rather than an ephemeral copy that discards every write on return.
func (c *ExecutionContext) Refresh(store *wasm.Store, memory *wasm.MemoryInstance, globals []*wasm.Value) {
	c.CurrentStore = store
	if memory != nil && len(memory.Buffer) > 0 {
		c.MemoryBase = unsafe.Pointer(&memory.Buffer[0])
	} else {
		c.MemoryBase = nil
	}
	if len(globals) > 0 {
		c.GlobalsBase = unsafe.Pointer(&globals[0])
	} else {
		c.GlobalsBase = nil
	}
}
