package exec

import "github.com/wasmlab/wexec/internal/wasm"

// Branch implements spec.md Sec. 4.3: pop depth+1 labels, restore the
// operand stack keeping only the values the target label's arity calls
// for, and re-enter a loop label when the target is a loop. It returns the
// PC the caller's dispatch loop should resume at.
//
// The tie-break for which operand values survive is LIFO (the newest
// values are kept), matching Wasm's "keep the top k operands" semantics.
func Branch(stacks *Stacks, depth int) int {
	target := stacks.LabelAt(depth)
	isLoop := target.LoopBodyPC != nil

	var keep int
	if isLoop {
		keep = target.EntryArity
	} else {
		keep = target.ExitArity
	}

	var popped Label
	for i := 0; i <= depth; i++ {
		popped = stacks.PopLabel()
	}
	pcOut := popped.ContinuationPC

	discardKeep(stacks, popped.SavedOperandHeight, keep)

	if popped.LoopBodyPC != nil {
		loopPC := *popped.LoopBodyPC
		stacks.PushLabel(Label{
			EntryArity:         popped.EntryArity,
			ExitArity:          popped.EntryArity,
			ContinuationPC:     pcOut,
			LoopBodyPC:         &loopPC,
			SavedOperandHeight: stacks.OperandHeight() - popped.EntryArity,
		})
		pcOut = loopPC
	}
	return pcOut
}

// discardKeep drops every operand between height and the current top
// except the top `keep` values, which are preserved on top of height.
// This is the pop/push dance spec.md Sec. 4.3 step 2 describes; naivevm's
// brAt does the same thing by slicing and re-pushing.
func discardKeep(stacks *Stacks, height, keep int) {
	if keep == 0 {
		stacks.TruncateOperands(height)
		return
	}
	values := make([]wasm.Value, keep)
	for i := keep - 1; i >= 0; i-- {
		values[i] = stacks.PopOperand()
	}
	stacks.TruncateOperands(height)
	for _, v := range values {
		stacks.PushOperand(v)
	}
}
