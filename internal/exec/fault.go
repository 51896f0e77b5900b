package exec

// FaultStatus is the outcome of a protected region, per spec.md Sec. 4.5.
type FaultStatus int

const (
	// FaultOK means the protected region returned normally.
	FaultOK FaultStatus = iota
	// FaultTerminated means the region asked to stop cooperatively (e.g. a
	// host callback requested termination); it is never logged, only
	// propagated.
	FaultTerminated
	// FaultFailed means the region panicked or returned an error. The
	// accompanying cause (the returned or recovered error) is what
	// surfaces; a panic with a non-error value surfaces as
	// TrapExecutionFailed.
	FaultFailed
)

// Terminate is the sentinel panic value a compiled-code trampoline (or a
// host function it calls back into) uses to unwind cooperatively, the Go
// analogue of the reference implementation's OS-signal-based termination
// request. Protect recognizes it and returns FaultTerminated instead of
// FaultFailed.
type Terminate struct{ Reason string }

// FaultHandler scopes a "protect this region" boundary around entering
// compiled code, replacing the reference implementation's OS signal
// handlers with Go's native panic/recover (spec.md Sec. 4.5: "a Go
// rewrite ... would use panic/recover scoped around the call instead").
type FaultHandler interface {
	// Protect runs fn and converts any panic it raises into a FaultStatus
	// instead of letting it escape. cause carries the recovered value's
	// error, if any, for the caller to attach to a Trap.
	Protect(fn func() error) (status FaultStatus, cause error)
}

// RecoverFaultHandler is the default FaultHandler: plain panic/recover.
type RecoverFaultHandler struct{}

func (RecoverFaultHandler) Protect(fn func() error) (status FaultStatus, cause error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if t, ok := r.(Terminate); ok {
			status = FaultTerminated
			if t.Reason != "" {
				cause = NewTrap(TrapTerminated, nil)
			}
			return
		}
		status = FaultFailed
		if err, ok := r.(error); ok {
			cause = err
		} else {
			cause = NewTrap(TrapExecutionFailed, nil)
		}
	}()
	if err := fn(); err != nil {
		return FaultFailed, err
	}
	return FaultOK, nil
}
