package exec

import "go.uber.org/zap"

// LogSink is where the executor reports host-call failures. Per spec.md
// Sec. 9 (resolved against original_source/lib/executor/helper.cpp, which
// calls spdlog::error only for ErrCode::ExecutionFailed), EnterFunction
// logs a host callee's error only when its Trap's Kind is
// TrapExecutionFailed; every other trap kind propagates silently.
type LogSink interface {
	HostCallFailed(funcName string, err error)
}

// NopLogSink discards everything. It is the default when NewExecutor is
// not given a LogSink.
type NopLogSink struct{}

func (NopLogSink) HostCallFailed(string, error) {}

// ZapLogSink adapts a *zap.Logger, the logging library the sibling
// wippyai-wasm-runtime repo wires into its wazero-based executor.
type ZapLogSink struct {
	Logger *zap.Logger
}

func NewZapLogSink(logger *zap.Logger) *ZapLogSink {
	return &ZapLogSink{Logger: logger}
}

func (z *ZapLogSink) HostCallFailed(funcName string, err error) {
	z.Logger.Error("host function call failed",
		zap.String("function", funcName),
		zap.Error(err),
	)
}
