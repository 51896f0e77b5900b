package exec

// Return implements spec.md Sec. 4.7: unwind every label pushed since the
// current function's boundary label (inclusive), preserving the top
// ExitArity operand values, then pop the frame itself and report the PC the
// dispatch loop should resume at.
//
// This is Branch generalized to "branch all the way out of the function":
// the boundary label's ExitArity is the values a `return` (or falling off
// the end of a function body) keeps, exactly like any other label, which is
// why the loop below is shaped like Branch's.
//
// When a tail call retired the caller's frame in place (Stacks.PushFrame),
// this single call also closes out that caller's logical frame, since
// PopFrame below removes the one combined slot they now share — this is
// the "cascade" spec.md Sec. 4.7 describes.
func Return(stacks *Stacks) int {
	frame := stacks.CurrentFrame()
	depth := stacks.LabelHeight() - frame.SavedLabelHeight

	var popped Label
	for i := 0; i < depth; i++ {
		popped = stacks.PopLabel()
	}

	discardKeep(stacks, popped.SavedOperandHeight, popped.ExitArity)

	retPC := frame.ReturnPC
	if popped.NoIncrement {
		retPC = popped.ContinuationPC
	}
	stacks.PopFrame()
	return retPC
}
