package wasm

// MemoryInstance backs linear memory. Buffer is grown by whole pages
// (PageSize bytes) by the memory.grow opcode, which lives in the opcode
// dispatcher, not here; the executor only ever reads Buffer's current
// length and base address.
type MemoryInstance struct {
	Buffer []byte
	Min    uint32
	Max    *uint32 // nil means no declared maximum.
}

const PageSize = 65536

// TableElement is one slot of a TableInstance. A zero Address with
// Initialized false models an uninitialized element, which call_indirect
// must trap on (UninitializedElement) rather than silently treating as a
// resolver miss.
type TableElement struct {
	FuncAddr    Address
	Initialized bool
}

type TableInstance struct {
	Elements []TableElement
	Max      *uint32
}

type GlobalInstance struct {
	Type    ValueType
	Mutable bool
	Val     Value
}

// ElementInstance is a passive or active element segment, resolved by
// table.init/elem.drop opcodes (external collaborators); the executor only
// hands out the resolved instance via exec.ResolveElement.
type ElementInstance struct {
	FuncAddrs []Address
	Dropped   bool
}

type DataInstance struct {
	Bytes   []byte
	Dropped bool
}

// HostFunction is the opaque callable behind a host Function Instance. It
// receives memory 0 of the module that defines the host function (nil if
// that module has none), moves
// ownership of args to the callee, and writes results in place.
type HostFunction interface {
	Call(memory *MemoryInstance, args []Value, results []Value) error
}

// HostFunc adapts a plain function literal to HostFunction, the way
// http.HandlerFunc adapts a func to http.Handler.
type HostFunc func(memory *MemoryInstance, args []Value, results []Value) error

func (f HostFunc) Call(memory *MemoryInstance, args []Value, results []Value) error {
	return f(memory, args, results)
}

// CompiledSymbol is an opaque handle to an AOT-compiled function entry
// point. The executor never dereferences it directly; it is only ever
// handed to the matching Wrapper.
type CompiledSymbol interface{}

// Trampoline is the wrapper symbol invoked to enter AOT-compiled code. Its
// concrete signature (exec.Trampoline) lives in the exec package, which
// depends on this one; FunctionInstance only stores it opaquely to avoid an
// import cycle, the same way HostFunction.Call's symmetric counterpart on
// the compiled side is a bare interface{} until exec asserts it.
type Trampoline interface{}

// FunctionKind discriminates the three ways a Function Instance can be
// entered. This is a tagged variant, not an inheritance hierarchy: exactly
// one of the kind-specific fields below is meaningful for a given instance.
type FunctionKind byte

const (
	FunctionKindNative FunctionKind = iota
	FunctionKindHost
	FunctionKindCompiled
)

func (k FunctionKind) String() string {
	switch k {
	case FunctionKindNative:
		return "native"
	case FunctionKindHost:
		return "host"
	case FunctionKindCompiled:
		return "compiled"
	default:
		return "unknown"
	}
}

// LocalDecl is one (count, value-type) run from a native function's local
// declarations, preserved exactly as the binary encodes them rather than
// flattened, so zero-initialization at call entry can stay a tight loop per
// declared run.
type LocalDecl struct {
	Count uint32
	Type  ValueType
}

// FunctionInstance is one function in the store, of exactly one Kind.
type FunctionInstance struct {
	ModuleAddr Address
	Name       string
	Type       *FunctionType
	Kind       FunctionKind

	// Native
	Locals []LocalDecl
	Body   []Instruction
	Blocks map[int]*BlockMeta

	// Host
	HostFn HostFunction
	Cost   uint64

	// Compiled
	Entry   CompiledSymbol
	Wrapper Trampoline
}

// ModuleInstance maps a module's local index spaces to store addresses,
// and for AOT use exposes a live view of its globals (GlobalsView). Its
// memory is reached through MemoryAddrs; there is no separate memory view.
type ModuleInstance struct {
	Name string

	Types         []*FunctionType
	FunctionAddrs []Address
	TableAddrs    []Address
	MemoryAddrs   []Address
	GlobalAddrs   []Address
	ElementAddrs  []Address
	DataAddrs     []Address

	// globalsView caches the per-global live pointers handed to AOT code
	// through an ExecutionContext. Built once on first use, not per call:
	// the Store's *GlobalInstance allocations never move, so the pointers
	// stay valid for the module instance's lifetime.
	globalsView []*Value
}

// GlobalsView returns, in local-index order, a stable pointer into each of
// this module's globals' live storage. Unlike copying out a []Value
// snapshot, a write through one of these pointers (by AOT code, or by
// GlobalSet) is visible to every other holder of the same GlobalInstance,
// which is what lets Store.Global and an ExecutionContext's GlobalsBase
// agree on one value per global rather than silently diverging.
func (m *ModuleInstance) GlobalsView(store *Store) []*Value {
	if m.globalsView != nil {
		return m.globalsView
	}
	view := make([]*Value, len(m.GlobalAddrs))
	for i, addr := range m.GlobalAddrs {
		if g, ok := store.Global(addr); ok {
			view[i] = &g.Val
		}
	}
	m.globalsView = view
	return view
}
