package cpu

// operate executes the micro-operations of an OPR word.
//
// Micro-operations compose freely and run in a fixed order:
//   - clears (CLA, CLL)
//   - complements (CMA, CML)
//   - switch OR (OAS)
//   - rotations (RAL/RAR, doubled by RTWO)
//   - the skip test, on the values left by the steps above
//   - halt
//
// This replaces matching whole words against a table of known
// combinations; every named combination still behaves as documented.
func (cpu *Cpu) operate(word Word) (err error) {
	bits := word & ^OPR_NOP

	if bits&OPR_BIT_RAL != 0 && bits&OPR_BIT_RAR != 0 {
		err = ErrOperate(word)
		return
	}

	if bits&OPR_BIT_CLA != 0 {
		cpu.Ac = 0
	}
	if bits&OPR_BIT_CLL != 0 {
		cpu.Link = 0
	}
	if bits&OPR_BIT_CMA != 0 {
		cpu.Ac = ^cpu.Ac & WORD_MASK
	}
	if bits&OPR_BIT_CML != 0 {
		cpu.Link ^= 1
	}
	if bits&OPR_BIT_OAS != 0 {
		cpu.Ac = (cpu.Ac | cpu.Switches).Mask()
	}

	rotations := 1
	if bits&OPR_BIT_RTWO != 0 {
		rotations = 2
	}
	for range rotations {
		switch {
		case bits&OPR_BIT_RAL != 0:
			cpu.rotateLeft()
		case bits&OPR_BIT_RAR != 0:
			cpu.rotateRight()
		}
	}

	if cpu.operateSkip(bits) {
		cpu.skip()
	}

	if bits&OPR_BIT_HLT != 0 {
		cpu.running.Store(false)
	}

	return
}

// operateSkip evaluates the skip group.
// Without INV, skip if any selected condition holds.
// With INV, skip if every selected condition fails; no conditions is SKP.
func (cpu *Cpu) operateSkip(bits Word) bool {
	sma := bits&OPR_BIT_SMA != 0 && cpu.Ac.Negative()
	sza := bits&OPR_BIT_SZA != 0 && cpu.Ac == 0
	snl := bits&OPR_BIT_SNL != 0 && cpu.Link != 0

	hit := sma || sza || snl
	if bits&OPR_BIT_INV != 0 {
		return !hit
	}

	return hit
}

// rotateLeft rotates the 19-bit ring of link and AC left one place.
func (cpu *Cpu) rotateLeft() {
	link := (cpu.Ac >> 17) & 1
	cpu.Ac = ((cpu.Ac << 1) | cpu.Link).Mask()
	cpu.Link = link
}

// rotateRight rotates the 19-bit ring of link and AC right one place.
func (cpu *Cpu) rotateRight() {
	link := cpu.Ac & 1
	cpu.Ac = ((cpu.Ac >> 1) | (cpu.Link << 17)).Mask()
	cpu.Link = link
}
