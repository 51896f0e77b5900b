// Package wasm holds the runtime data model the executor operates on: the
// store's flat address tables and the instances they hold. Decoding a
// module from its binary form and validating it are out of scope here; this
// package assumes a validated module has already produced these instances.
package wasm

import "fmt"

// ValueType is the tag of a Wasm value. Operands on the stack are always
// 64 bits wide; ValueType only describes how to interpret those bits, and
// is consulted by locals declarations, function signatures and globals.
type ValueType byte

const (
	ValueTypeI32 ValueType = iota
	ValueTypeI64
	ValueTypeF32
	ValueTypeF64
	ValueTypeFuncRef
	ValueTypeExternRef
)

func (v ValueType) String() string {
	switch v {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeFuncRef:
		return "funcref"
	case ValueTypeExternRef:
		return "externref"
	default:
		return fmt.Sprintf("unknown(%d)", byte(v))
	}
}

// Value is an operand. Floats are stored in their IEEE-754 bit pattern, as
// in the teacher's interpreter (naivevm and wazeroir both keep the operand
// stack as []uint64 and reinterpret bits per opcode).
type Value uint64

// FunctionType is a type-section entry: a signature plus the ID used for
// call_indirect type checks.
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
	ID      TypeID
}

// TypeID uniquely identifies a FunctionType within a store, analogous to
// wazero's FunctionTypeID used to type-check call_indirect without walking
// the full signature on every call.
type TypeID uint32

// Address is an opaque, store-relative handle. The zero value never
// designates a live instance (addresses are assigned starting at 1), which
// lets a zero Address double as "no instance" without a separate bool.
type Address uint32

const NoAddress Address = 0
