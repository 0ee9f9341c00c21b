package bytecode

import "strconv"

// Instruction is one decoded op plus its operand (zero when the op takes
// none). The VM and a disassembler both walk a flat []Instruction rather
// than a packed byte stream — AL programs are small enough that this costs
// nothing and keeps the compiler/VM code free of manual byte-packing, unlike
// funxy's Chunk which packs into a []byte for a much larger language.
type Instruction struct {
	Op      Op
	Operand int
	Line    int
}

func (i Instruction) String() string {
	if !HasOperand(i.Op) {
		return i.Op.String()
	}
	return i.Op.String() + " " + strconv.Itoa(i.Operand)
}
