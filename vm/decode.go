package vm

// Word is the fundamental unit of UM state: a 32-bit value used both as an
// instruction and as a datum. All arithmetic on it is modulo 2^32, which
// Go's uint32 already gives us for free.
type Word = uint32

// Opcode identifies one of the 14 fixed UM instructions. The ISA defines no
// others; a value outside [0,13] is undefined behaviour (see §7 of the spec).
type Opcode uint8

const (
	OpCmov   Opcode = 0
	OpSload  Opcode = 1
	OpSstore Opcode = 2
	OpAdd    Opcode = 3
	OpMult   Opcode = 4
	OpDiv    Opcode = 5
	OpNand   Opcode = 6
	OpHalt   Opcode = 7
	OpMap    Opcode = 8
	OpUnmap  Opcode = 9
	OpOutput Opcode = 10
	OpInput  Opcode = 11
	OpLoadp  Opcode = 12
	OpLoadv  Opcode = 13
)

// Field widths and masks for the three-register instruction layout:
//
//	31        28 27            9 8   6 5   3 2   0
//	+----------+----------------+-----+-----+-----+
//	|  opcode  |    (unused)    |  A  |  B  |  C   |
//	+----------+----------------+-----+-----+-----+
const (
	regMask = 0x7

	aShift = 6
	bShift = 3
	cShift = 0
)

// For opcode 13 (LOADV) the layout instead packs a 25-bit immediate:
//
//	31        28 27   25 24                        0
//	+----------+-------+--------------------------+
//	|  opcode  |   A   |          value            |
//	+----------+-------+--------------------------+
const (
	loadvAMask     = 0x7
	loadvAShift    = 25
	loadvValueMask = 0x1FFFFFF // 25 bits: 0..33554431
)

// opcode extracts the 4-bit instruction selector from the top of the word.
func opcode(w Word) Opcode {
	return Opcode(w >> 28)
}

// a extracts register index A from a standard three-register instruction.
func a(w Word) Word {
	return (w >> aShift) & regMask
}

// b extracts register index B from a standard three-register instruction.
func b(w Word) Word {
	return (w >> bShift) & regMask
}

// c extracts register index C from a standard three-register instruction.
func c(w Word) Word {
	return (w >> cShift) & regMask
}

// loadvA extracts register index A from a LOADV instruction, which packs it
// in bits 27..25, directly below the opcode, instead of bits 8..6.
func loadvA(w Word) Word {
	return (w >> loadvAShift) & loadvAMask
}

// loadvValue extracts the 25-bit immediate from a LOADV instruction,
// zero-extended to 32 bits.
func loadvValue(w Word) Word {
	return w & loadvValueMask
}
