package cpu

// Word is an 18-bit machine word held in the low bits of a uint32.
type Word uint32

// Address is a 13-bit core address held in the low bits of a uint32.
type Address uint32

const (
	MEMORY_SIZE       = 8192             // 8K words of core.
	WORD_MASK         = Word(0o777777)   // 18 bits.
	ADDRESS_MASK      = Address(0o17777) // 13 bits.
	SIGN_BIT          = Word(0o400000)   // Bit 17, the accumulator sign.
	INSTRUCTION_START = Address(0o2000)  // Default start of the program region.
)

// Memory is the flat core of the machine. No protection, no caching.
type Memory [MEMORY_SIZE]Word

// Mask returns the word truncated to 18 bits.
func (w Word) Mask() Word {
	return w & WORD_MASK
}

// Address returns the 13-bit address field of the word.
func (w Word) Address() Address {
	return Address(w) & ADDRESS_MASK
}

// Negative is true if bit 17 is set.
func (w Word) Negative() bool {
	return (w & SIGN_BIT) != 0
}

// Mask returns the address truncated to 13 bits.
func (a Address) Mask() Address {
	return a & ADDRESS_MASK
}

// Read returns the word at the masked address.
func (mem *Memory) Read(addr Address) Word {
	return mem[addr.Mask()]
}

// Write stores the word at the masked address.
func (mem *Memory) Write(addr Address, value Word) {
	mem[addr.Mask()] = value
}
