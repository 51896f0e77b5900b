package wasm

// Opcode is the minimal control-flow and call instruction set the core
// needs to drive C1-C4 end to end. Per spec.md Non-goals, individual
// numeric opcodes are delegated to an opcode dispatcher external to this
// core; these are only the ones the executor's dispatch loop and tests
// exercise directly (block/loop/branch/call structure, plus enough locals
// and constants to write a runnable native function body).
type Opcode byte

const (
	OpUnreachable Opcode = iota
	OpNop
	OpBlock
	OpLoop
	OpIf
	OpElse
	OpEnd
	OpBr
	OpBrIf
	OpBrTable
	OpReturn
	OpCall
	OpReturnCall // tail call
	OpCallIndirect
	OpDrop
	OpLocalGet
	OpLocalSet
	OpGlobalGet
	OpGlobalSet
	OpConstI32
	OpConstI64
)

// BlockType is either a direct value-type result (HasValue false meaning no
// result) or an index into the active module's type section.
type BlockType struct {
	IsIndex bool
	Index   uint32
	// ValueType/HasValue are meaningful only when !IsIndex.
	ValueType ValueType
	HasValue  bool
}

// BlockMeta is precomputed per block/loop/if instruction in a native
// function's body, analogous to naivevm's FunctionInstance.Blocks: where
// the block's "else" and "end" live in the instruction stream, so the
// dispatch loop never has to re-scan for them.
type BlockMeta struct {
	Type   BlockType
	ElseAt int // index of the matching `else`, or -1 if none.
	EndAt  int // index of the matching `end`.
}

// Instruction is one entry of a native function's body.
type Instruction struct {
	Op Opcode
	// Imm is the single immediate most opcodes need: a branch depth, a
	// local/global index, a function index, or a constant's value.
	Imm int64
	// Targets holds br_table's (default-first) branch depths. For
	// call_indirect it optionally holds the table index as its single
	// entry (table 0 when empty); it is empty for every other opcode.
	Targets []int64
}
