package exec

import "sync/atomic"

// MeteringCollector charges execution cost and tracks which side of the
// host/wasm boundary time is currently attributed to, per spec.md Sec. 4.6.
// Charge must be called before the metered work runs, not after, so that an
// over-budget call traps before any of its effects are visible
// (spec.md's "atomicity" property).
type MeteringCollector interface {
	// Charge debits cost from the remaining budget and reports whether the
	// budget held. On false, the caller must trap with
	// TrapCostLimitExceeded without having done anything else.
	Charge(cost uint64) bool

	// StopWasm/StartWasm and StopHost/StartHost bracket a host call so the
	// collector can attribute wall time correctly (spec.md Sec. 4.4's
	// "toggle timers" step around host invocation).
	StopWasm()
	StartWasm()
	StopHost()
	StartHost()
}

// NopMeter never runs out of budget and ignores the timer toggles. It is
// the default when NewExecutor is not given a MeteringCollector.
type NopMeter struct{}

func (NopMeter) Charge(uint64) bool { return true }
func (NopMeter) StopWasm()          {}
func (NopMeter) StartWasm()         {}
func (NopMeter) StopHost()          {}
func (NopMeter) StartHost()         {}

// BudgetMeter is a working MeteringCollector backed by an atomic remaining
// counter, suitable for a single call tree (it is not shared across
// concurrent Stacks, matching the no-shared-Stacks rule in spec.md Sec. 5).
type BudgetMeter struct {
	remaining int64
}

// NewBudgetMeter returns a BudgetMeter with the given starting budget.
func NewBudgetMeter(budget uint64) *BudgetMeter {
	return &BudgetMeter{remaining: int64(budget)}
}

// Charge subtracts cost and reports whether the result is still
// non-negative. Overflow of cost itself (a cost so large it would wrap the
// signed counter) is treated as exhausting the budget outright.
func (m *BudgetMeter) Charge(cost uint64) bool {
	if cost > 1<<62 {
		atomic.StoreInt64(&m.remaining, -1)
		return false
	}
	return atomic.AddInt64(&m.remaining, -int64(cost)) >= 0
}

func (m *BudgetMeter) StopWasm()  {}
func (m *BudgetMeter) StartWasm() {}
func (m *BudgetMeter) StopHost()  {}
func (m *BudgetMeter) StartHost() {}

// Remaining reports the current budget, for tests and diagnostics.
func (m *BudgetMeter) Remaining() int64 {
	return atomic.LoadInt64(&m.remaining)
}
