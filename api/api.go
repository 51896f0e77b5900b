// Package api is the public surface of wexec, the way the teacher's own
// api package decouples its engine internals from what embedders import.
// Everything here is a thin alias over internal/wasm and internal/exec;
// the actual implementations live there.
package api

import (
	"github.com/wasmlab/wexec/internal/exec"
	"github.com/wasmlab/wexec/internal/wasm"
)

type (
	Store             = wasm.Store
	ModuleInstance    = wasm.ModuleInstance
	FunctionInstance  = wasm.FunctionInstance
	FunctionType      = wasm.FunctionType
	FunctionKind      = wasm.FunctionKind
	MemoryInstance    = wasm.MemoryInstance
	TableInstance     = wasm.TableInstance
	TableElement      = wasm.TableElement
	GlobalInstance    = wasm.GlobalInstance
	ElementInstance   = wasm.ElementInstance
	DataInstance      = wasm.DataInstance
	HostFunction      = wasm.HostFunction
	Value             = wasm.Value
	ValueType         = wasm.ValueType
	Address           = wasm.Address

	Executor             = exec.Executor
	Option               = exec.Option
	MeteringCollector    = exec.MeteringCollector
	LogSink              = exec.LogSink
	FaultHandler         = exec.FaultHandler
	Trap                 = exec.Trap
	TrapKind             = exec.TrapKind
	ExecutionContext     = exec.ExecutionContext
)

var (
	NewStore    = wasm.NewStore
	NewExecutor = exec.NewExecutor
	WithMeter        = exec.WithMeter
	WithLogSink      = exec.WithLogSink
	WithFaultHandler = exec.WithFaultHandler
	NewBudgetMeter   = exec.NewBudgetMeter
	NewZapLogSink    = exec.NewZapLogSink
)

const (
	FunctionKindNative   = wasm.FunctionKindNative
	FunctionKindHost     = wasm.FunctionKindHost
	FunctionKindCompiled = wasm.FunctionKindCompiled

	TrapCostLimitExceeded        = exec.TrapCostLimitExceeded
	TrapExecutionFailed          = exec.TrapExecutionFailed
	TrapTerminated               = exec.TrapTerminated
	TrapMemoryOutOfBounds        = exec.TrapMemoryOutOfBounds
	TrapDivideByZero             = exec.TrapDivideByZero
	TrapIntegerOverflow          = exec.TrapIntegerOverflow
	TrapInvalidConversion        = exec.TrapInvalidConversion
	TrapUnreachable              = exec.TrapUnreachable
	TrapCallIndirectTypeMismatch = exec.TrapCallIndirectTypeMismatch
	TrapUninitializedElement     = exec.TrapUninitializedElement
	TrapCallStackOverflow        = exec.TrapCallStackOverflow
)
