package vm

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strconv"
)

// Step fetches, decodes and executes exactly one instruction.
//
// Per the spec: fetch at (0, pc), advance pc by one *before* dispatch, then
// decode and execute. LOADP completes its image replacement before
// overwriting pc, so the old pc can never address the new image. Every
// other handler's register write happens at the end, using operand values
// read from the register file as it stood at the start of the step.
func (m *Machine) Step() error {
	w, err := m.mem.Get(0, m.pc)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPCOutOfRange, err)
	}
	m.pc++

	switch op := opcode(w); op {
	case OpCmov:
		if m.registers[c(w)] != 0 {
			m.registers[a(w)] = m.registers[b(w)]
		}

	case OpSload:
		v, err := m.mem.Get(m.registers[b(w)], m.registers[c(w)])
		if err != nil {
			return err
		}
		m.registers[a(w)] = v

	case OpSstore:
		if err := m.mem.Put(m.registers[a(w)], m.registers[b(w)], m.registers[c(w)]); err != nil {
			return err
		}

	case OpAdd:
		m.registers[a(w)] = m.registers[b(w)] + m.registers[c(w)]

	case OpMult:
		m.registers[a(w)] = m.registers[b(w)] * m.registers[c(w)]

	case OpDiv:
		divisor := m.registers[c(w)]
		if divisor == 0 {
			return ErrDivideByZero
		}
		m.registers[a(w)] = m.registers[b(w)] / divisor

	case OpNand:
		m.registers[a(w)] = ^(m.registers[b(w)] & m.registers[c(w)])

	case OpHalt:
		m.halted = true

	case OpMap:
		m.registers[b(w)] = m.mem.Allocate(m.registers[c(w)])

	case OpUnmap:
		if err := m.mem.Free(m.registers[c(w)]); err != nil {
			return err
		}

	case OpOutput:
		// The EOF sentinel left by INPUT is emitted as its low 8 bits (0xFF);
		// any other value above a byte is rejected.
		v := m.registers[c(w)]
		if v > 0xFF && v != 0xFFFFFFFF {
			return fmt.Errorf("%w: output value %d exceeds a byte", ErrIO, v)
		}
		if err := m.out.WriteByte(byte(v)); err != nil {
			return fmt.Errorf("%w: %s", ErrIO, err)
		}
		// A buffered sink is flushed so the byte is observable before the
		// next fetch.
		if f, ok := m.out.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				return fmt.Errorf("%w: %s", ErrIO, err)
			}
		}

	case OpInput:
		// End of input yields the sentinel; any other read error is fatal.
		b, err := m.in.ReadByte()
		switch {
		case err == io.EOF:
			m.registers[c(w)] = 0xFFFFFFFF
		case err != nil:
			return fmt.Errorf("%w: %s", ErrIO, err)
		default:
			m.registers[c(w)] = Word(b)
		}

	case OpLoadp:
		target := m.registers[b(w)]
		next := m.registers[c(w)]
		if err := m.mem.LoadProgram(target); err != nil {
			return err
		}
		m.pc = next

	case OpLoadv:
		m.registers[loadvA(w)] = loadvValue(w)

	default:
		return fmt.Errorf("%w: %d", ErrUnknownOpcode, op)
	}

	return nil
}

// Run executes instructions until HALT or a fatal error. Programs are
// compute-bound (§1: self-hosted UM images can run billions of
// instructions), so the garbage collector is disabled for the duration of
// the run and the previous GOGC percentage is restored on return, exactly
// as the teacher's RunProgram does around its own dispatch loop.
func (m *Machine) Run() error {
	gcPercent := 100
	if v, ok := os.LookupEnv("GOGC"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			gcPercent = n
		}
	}

	debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gcPercent)

	for !m.halted {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
