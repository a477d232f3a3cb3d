package vm

import "errors"

// Sentinel errors, in the teacher's style (vm/vm.go: errProgramFinished,
// errSegmentationFault, errIllegalOperation, errUnknownInstruction, errIO).
//
// ErrBadHandle, ErrOutOfRange and ErrDivideByZero correspond to ISA-level
// undefined behaviour (§7) that this implementation chooses to detect and
// fail fast on rather than leave as a silent memory corruption or a Go
// panic. ErrImageUnaligned is raised by the CLI wrapper's image loader,
// before a Machine ever exists.
var (
	ErrBadHandle      = errors.New("um: operation on a freed or unallocated segment handle")
	ErrOutOfRange     = errors.New("um: offset outside segment bounds")
	ErrFreeReserved   = errors.New("um: attempt to free reserved segment 0")
	ErrDivideByZero   = errors.New("um: division by zero")
	ErrUnknownOpcode  = errors.New("um: opcode not recognized")
	ErrPCOutOfRange   = errors.New("um: program counter outside segment 0")
	ErrIO             = errors.New("um: input/output error")
	ErrImageUnaligned = errors.New("um: program image size is not a multiple of 4 bytes")
)
