package exec

import "github.com/wasmlab/wexec/internal/wasm"

// EnterFunction is the Function Entry Dispatch (spec.md Sec. 4.4): it pushes
// the callee's frame and then, depending on the callee's Kind, does exactly
// what the reference implementation's Executor::enterFunction does for that
// kind, in the same order. The nextPC it returns is the PC the caller's
// dispatch loop should resume at; for native callees that is the first body
// instruction, for host/compiled callees it is simply returnPC, since those
// run to completion synchronously inside this call.
func EnterFunction(
	store *wasm.Store,
	stacks *Stacks,
	execCtx *ExecutionContext,
	meter MeteringCollector,
	fault FaultHandler,
	logs LogSink,
	callee *wasm.FunctionInstance,
	returnPC int,
	isTailCall bool,
) (nextPC int, err error) {
	paramCount := len(callee.Type.Params)
	resultCount := len(callee.Type.Results)

	if pushErr := stacks.PushFrame(callee.ModuleAddr, paramCount, resultCount, isTailCall, returnPC); pushErr != nil {
		return 0, NewTrap(TrapCallStackOverflow, pushErr)
	}

	switch callee.Kind {
	case wasm.FunctionKindNative:
		return enterNative(stacks, callee, returnPC)
	case wasm.FunctionKindHost:
		return enterHost(store, stacks, meter, logs, callee, returnPC)
	case wasm.FunctionKindCompiled:
		return enterCompiled(store, stacks, execCtx, fault, callee, returnPC)
	default:
		stacks.PopFrame()
		return 0, NewTrap(TrapExecutionFailed, nil)
	}
}

// enterNative implements the "Native callee" branch: zero-initialize every
// declared local beyond the parameters already on the operand stack, push
// the function-boundary label, and resume at the first body instruction.
// The boundary label sets NoIncrement, replacing the reference
// implementation's "continuation PC = caller PC - 1" arithmetic (spec.md
// Sec. 9).
func enterNative(stacks *Stacks, callee *wasm.FunctionInstance, returnPC int) (int, error) {
	frame := stacks.CurrentFrame()
	// The boundary label's saved height is the stack height before this
	// call's parameters were pushed, not after: Return must discard the
	// parameters along with the declared locals, leaving only the result
	// values on top of whatever the caller had before the call.
	baseHeight := frame.LocalBase

	for _, decl := range callee.Locals {
		zero := wasm.Value(0)
		for i := uint32(0); i < decl.Count; i++ {
			stacks.PushOperand(zero)
		}
	}
	stacks.PushLabel(Label{
		EntryArity:         0,
		ExitArity:          len(callee.Type.Results),
		ContinuationPC:     returnPC,
		SavedOperandHeight: baseHeight,
		NoIncrement:        true,
	})
	return 0, nil
}

// enterHost implements the "Host callee" branch: charge the function's
// declared cost before doing anything else (spec.md's atomicity property —
// an over-budget call must not execute any of the callee's effects),
// resolve the callee's own module's memory 0 for the host function to
// operate on, pop the argument operands, toggle the metering timers around
// the call, and log only ExecutionFailed errors.
func enterHost(store *wasm.Store, stacks *Stacks, meter MeteringCollector, logs LogSink, callee *wasm.FunctionInstance, returnPC int) (int, error) {
	stacks.PushLabel(Label{
		ExitArity:      len(callee.Type.Results),
		ContinuationPC: returnPC,
	})

	if !meter.Charge(callee.Cost) {
		stacks.PopLabel()
		stacks.PopFrame()
		return 0, NewTrap(TrapCostLimitExceeded, nil)
	}

	frame := stacks.CurrentFrame()
	var memory *wasm.MemoryInstance
	if mod, ok := store.Module(frame.ModuleAddr); ok && len(mod.MemoryAddrs) > 0 {
		memory, _ = store.Memory(mod.MemoryAddrs[0])
	}

	paramCount := len(callee.Type.Params)
	args := make([]wasm.Value, paramCount)
	for i := paramCount - 1; i >= 0; i-- {
		args[i] = stacks.PopOperand()
	}
	results := make([]wasm.Value, len(callee.Type.Results))

	meter.StopWasm()
	meter.StartHost()
	callErr := callee.HostFn.Call(memory, args, results)
	meter.StopHost()
	meter.StartWasm()

	if callErr != nil {
		if trap, ok := callErr.(*Trap); ok && trap.Kind == TrapExecutionFailed {
			logs.HostCallFailed(callee.Name, callErr)
		}
		stacks.PopLabel()
		stacks.PopFrame()
		return 0, callErr
	}

	stacks.PopLabel()
	popped := stacks.PopFrame()
	for _, v := range results {
		stacks.PushOperand(v)
	}
	return popped.ReturnPC, nil
}

// enterCompiled implements the "Compiled callee" branch: refresh the
// ExecutionContext from the callee's module so AOT code sees the right
// memory/globals base, invoke the trampoline inside a protected region, and
// translate a fault into a trap the same way a native trap would surface.
func enterCompiled(store *wasm.Store, stacks *Stacks, execCtx *ExecutionContext, fault FaultHandler, callee *wasm.FunctionInstance, returnPC int) (int, error) {
	frame := stacks.CurrentFrame()
	mod, ok := store.Module(frame.ModuleAddr)
	if !ok {
		panic("exec: active frame references a module that is not in the store")
	}
	var memory *wasm.MemoryInstance
	if len(mod.MemoryAddrs) > 0 {
		memory, _ = store.Memory(mod.MemoryAddrs[0])
	}
	execCtx.Refresh(store, memory, mod.GlobalsView(store))

	stacks.PushLabel(Label{
		ExitArity:      len(callee.Type.Results),
		ContinuationPC: returnPC,
	})

	paramCount := len(callee.Type.Params)
	args := make([]wasm.Value, paramCount)
	for i := paramCount - 1; i >= 0; i-- {
		args[i] = stacks.PopOperand()
	}
	results := make([]wasm.Value, len(callee.Type.Results))

	trampoline, ok := callee.Wrapper.(Trampoline)
	if !ok {
		stacks.PopLabel()
		stacks.PopFrame()
		return 0, NewTrap(TrapExecutionFailed, nil)
	}

	status, cause := fault.Protect(func() error {
		return trampoline(execCtx, callee.Entry, args, results)
	})

	switch status {
	case FaultTerminated:
		stacks.PopLabel()
		stacks.PopFrame()
		return 0, NewTrap(TrapTerminated, cause)
	case FaultFailed:
		stacks.PopLabel()
		stacks.PopFrame()
		if cause != nil {
			return 0, cause
		}
		return 0, NewTrap(TrapExecutionFailed, nil)
	}

	stacks.PopLabel()
	popped := stacks.PopFrame()
	for _, v := range results {
		stacks.PushOperand(v)
	}
	return popped.ReturnPC, nil
}
