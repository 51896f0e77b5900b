package exec

import "github.com/wasmlab/wexec/internal/wasm"

// Executor ties the stack manager, instance resolver, branch engine, and
// function-entry dispatch together into something a caller can actually
// invoke a function through. Apart from the ExecutionContext it refreshes
// on every compiled-function entry, it holds no per-call state; a single
// Executor can drive many independent Stacks (spec.md Sec. 5's no-shared-Stacks
// rule is about Stacks, not the Executor around it).
type Executor struct {
	store   *wasm.Store
	meter   MeteringCollector
	fault   FaultHandler
	logs    LogSink
	execCtx *ExecutionContext
}

// Option configures an Executor, the functional-options shape the teacher's
// constructors (e.g. wazero's RuntimeConfig) favor over a bare struct
// literal once a type grows more than a couple of optional fields.
type Option func(*Executor)

// WithMeter installs a MeteringCollector. The default is NopMeter.
func WithMeter(m MeteringCollector) Option {
	return func(e *Executor) { e.meter = m }
}

// WithFaultHandler installs a FaultHandler. The default is RecoverFaultHandler.
func WithFaultHandler(f FaultHandler) Option {
	return func(e *Executor) { e.fault = f }
}

// WithLogSink installs a LogSink. The default is NopLogSink.
func WithLogSink(l LogSink) Option {
	return func(e *Executor) { e.logs = l }
}

// NewExecutor builds an Executor over store, applying opts in order.
func NewExecutor(store *wasm.Store, opts ...Option) *Executor {
	e := &Executor{
		store:   store,
		meter:   NopMeter{},
		fault:   RecoverFaultHandler{},
		logs:    NopLogSink{},
		execCtx: &ExecutionContext{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Call invokes the function at funcAddr with args, on a fresh Stacks, and
// returns its results. Callers that need to share call history (e.g. a
// host function calling back into the store) should instead call
// EnterFunction directly against their own Stacks.
func (e *Executor) Call(funcAddr wasm.Address, args []wasm.Value) ([]wasm.Value, error) {
	stacks := NewStacks()
	return e.CallWith(stacks, funcAddr, args)
}

// CallWith is Call against a caller-supplied Stacks, for callers that need
// the stack to persist across multiple top-level invocations.
func (e *Executor) CallWith(stacks *Stacks, funcAddr wasm.Address, args []wasm.Value) ([]wasm.Value, error) {
	fn, ok := e.store.Function(funcAddr)
	if !ok {
		return nil, NewTrap(TrapExecutionFailed, nil)
	}
	for _, a := range args {
		stacks.PushOperand(a)
	}

	entryPC, err := EnterFunction(e.store, stacks, e.execCtx, e.meter, e.fault, e.logs, fn, -1, false)
	if err != nil {
		return nil, err
	}

	if fn.Kind == wasm.FunctionKindNative {
		if _, err := e.runNative(stacks, fn, entryPC); err != nil {
			return nil, err
		}
	}

	results := make([]wasm.Value, len(fn.Type.Results))
	for i := len(results) - 1; i >= 0; i-- {
		results[i] = stacks.PopOperand()
	}
	return results, nil
}

// resolveFunction translates a local function index through the active
// module's function index space, the function-typed sibling of
// ResolveTable/ResolveMemory/etc. in resolve.go.
func (e *Executor) resolveFunction(stacks *Stacks, localIndex int) (*wasm.FunctionInstance, bool) {
	var out *wasm.FunctionInstance
	ok := resolve(e.store, stacks, localIndex,
		func(m *wasm.ModuleInstance) []wasm.Address { return m.FunctionAddrs },
		func(addr wasm.Address) bool {
			f, ok := e.store.Function(addr)
			out = f
			return ok
		})
	return out, ok
}

// runNative drives one native function body from pc until it returns,
// handling non-tail calls by recursing (bounded by Stacks.CallStackCeiling,
// the same bound that governs Frames growth) and tail calls by looping in
// place so the Go call stack never grows across a self- or mutual-tail-call
// chain (spec.md property 5).
func (e *Executor) runNative(stacks *Stacks, fn *wasm.FunctionInstance, pc int) (int, error) {
	for {
		if pc >= len(fn.Body) {
			return Return(stacks), nil
		}
		instr := fn.Body[pc]

		switch instr.Op {
		case wasm.OpUnreachable:
			return 0, NewTrap(TrapUnreachable, nil)

		case wasm.OpNop:
			pc++

		case wasm.OpBlock, wasm.OpLoop, wasm.OpIf:
			meta := fn.Blocks[pc]
			entryArity, exitArity, err := BlockArity(e.store, stacks, meta.Type)
			if err != nil {
				return 0, err
			}
			switch instr.Op {
			case wasm.OpLoop:
				loopPC := pc + 1
				stacks.PushLabel(Label{
					EntryArity:         entryArity,
					ExitArity:          exitArity,
					ContinuationPC:     meta.EndAt + 1,
					LoopBodyPC:         &loopPC,
					SavedOperandHeight: stacks.OperandHeight() - entryArity,
				})
				pc++
			case wasm.OpBlock:
				stacks.PushLabel(Label{
					EntryArity:         entryArity,
					ExitArity:          exitArity,
					ContinuationPC:     meta.EndAt + 1,
					SavedOperandHeight: stacks.OperandHeight() - entryArity,
				})
				pc++
			case wasm.OpIf:
				cond := stacks.PopOperand()
				stacks.PushLabel(Label{
					EntryArity:         entryArity,
					ExitArity:          exitArity,
					ContinuationPC:     meta.EndAt + 1,
					SavedOperandHeight: stacks.OperandHeight() - entryArity,
				})
				if cond != 0 {
					pc++
				} else if meta.ElseAt >= 0 {
					pc = meta.ElseAt + 1
				} else {
					stacks.PopLabel()
					pc = meta.EndAt + 1
				}
			}

		case wasm.OpElse:
			// Reached only by falling through the true branch of an if:
			// the label's own ContinuationPC already points past the
			// matching end, so this is exactly a branch depth 0.
			lbl := stacks.PopLabel()
			pc = lbl.ContinuationPC

		case wasm.OpEnd:
			stacks.PopLabel()
			pc++

		case wasm.OpBr:
			pc = Branch(stacks, int(instr.Imm))

		case wasm.OpBrIf:
			cond := stacks.PopOperand()
			if cond != 0 {
				pc = Branch(stacks, int(instr.Imm))
			} else {
				pc++
			}

		case wasm.OpBrTable:
			i := int(int64(stacks.PopOperand()))
			var depth int64
			if i >= 0 && i < len(instr.Targets)-1 {
				depth = instr.Targets[1+i]
			} else {
				depth = instr.Targets[0]
			}
			pc = Branch(stacks, int(depth))

		case wasm.OpReturn:
			return Return(stacks), nil

		case wasm.OpDrop:
			stacks.PopOperand()
			pc++

		case wasm.OpLocalGet:
			stacks.PushOperand(stacks.LocalGet(int(instr.Imm)))
			pc++

		case wasm.OpLocalSet:
			stacks.LocalSet(int(instr.Imm), stacks.PopOperand())
			pc++

		case wasm.OpGlobalGet:
			g, ok := ResolveGlobal(e.store, stacks, int(instr.Imm))
			if !ok {
				return 0, NewTrap(TrapExecutionFailed, nil)
			}
			stacks.PushOperand(g.Val)
			pc++

		case wasm.OpGlobalSet:
			v := stacks.PopOperand()
			g, ok := ResolveGlobal(e.store, stacks, int(instr.Imm))
			if !ok {
				return 0, NewTrap(TrapExecutionFailed, nil)
			}
			g.Val = v
			pc++

		case wasm.OpConstI32, wasm.OpConstI64:
			stacks.PushOperand(wasm.Value(instr.Imm))
			pc++

		case wasm.OpCall:
			callee, ok := e.resolveFunction(stacks, int(instr.Imm))
			if !ok {
				return 0, NewTrap(TrapExecutionFailed, nil)
			}
			entryPC, err := EnterFunction(e.store, stacks, e.execCtx, e.meter, e.fault, e.logs, callee, pc+1, false)
			if err != nil {
				return 0, err
			}
			if callee.Kind == wasm.FunctionKindNative {
				next, err := e.runNative(stacks, callee, entryPC)
				if err != nil {
					return 0, err
				}
				pc = next
			} else {
				pc = entryPC
			}

		case wasm.OpReturnCall:
			callee, ok := e.resolveFunction(stacks, int(instr.Imm))
			if !ok {
				return 0, NewTrap(TrapExecutionFailed, nil)
			}
			returnPC := stacks.CurrentFrame().ReturnPC
			entryPC, err := EnterFunction(e.store, stacks, e.execCtx, e.meter, e.fault, e.logs, callee, returnPC, true)
			if err != nil {
				return 0, err
			}
			if callee.Kind == wasm.FunctionKindNative {
				fn = callee
				pc = entryPC
				continue
			}
			return entryPC, nil

		case wasm.OpCallIndirect:
			typeIdx := uint32(instr.Imm)
			tableIdx := 0
			if len(instr.Targets) > 0 {
				tableIdx = int(instr.Targets[0])
			}
			elemIdx := int(int64(stacks.PopOperand()))
			table, ok := ResolveTable(e.store, stacks, tableIdx)
			if !ok {
				return 0, NewTrap(TrapExecutionFailed, nil)
			}
			if elemIdx < 0 || elemIdx >= len(table.Elements) {
				return 0, NewTrap(TrapExecutionFailed, nil)
			}
			elem := table.Elements[elemIdx]
			if !elem.Initialized {
				return 0, NewTrap(TrapUninitializedElement, nil)
			}
			callee, ok := e.store.Function(elem.FuncAddr)
			if !ok {
				return 0, NewTrap(TrapExecutionFailed, nil)
			}
			mod, ok := e.store.Module(stacks.CurrentFrame().ModuleAddr)
			if !ok {
				panic("exec: active frame references a module that is not in the store")
			}
			if int(typeIdx) >= len(mod.Types) || callee.Type.ID != mod.Types[typeIdx].ID {
				return 0, NewTrap(TrapCallIndirectTypeMismatch, nil)
			}
			entryPC, err := EnterFunction(e.store, stacks, e.execCtx, e.meter, e.fault, e.logs, callee, pc+1, false)
			if err != nil {
				return 0, err
			}
			if callee.Kind == wasm.FunctionKindNative {
				next, err := e.runNative(stacks, callee, entryPC)
				if err != nil {
					return 0, err
				}
				pc = next
			} else {
				pc = entryPC
			}

		default:
			return 0, NewTrap(TrapExecutionFailed, nil)
		}
	}
}
