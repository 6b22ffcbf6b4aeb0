package cpu

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzStep(f *testing.F) {
	for _, word := range []uint32{0, 0o300000, 0o340100, 0o400100, 0o640000, 0o740000, 0o760017, 0o777777} {
		f.Add(word, uint32(0), false, int64(1))
		f.Add(word, uint32(0o777777), true, int64(2))
	}

	f.Fuzz(func(t *testing.T, word uint32, ac uint32, link bool, seed int64) {
		assert := assert.New(t)

		rng := rand.New(rand.NewSource(seed))

		cpu := NewCpu()
		for addr := range MEMORY_SIZE {
			cpu.Memory.Write(Address(addr), Word(rng.Uint32()).Mask())
		}
		cpu.Memory.Write(INSTRUCTION_START, Word(word).Mask())
		cpu.Ac = Word(ac).Mask()
		if link {
			cpu.Link = 1
		}
		cpu.Switches = Word(rng.Uint32()).Mask()
		cpu.Keyboard = &testKeyboard{ready: true, key: 'k'}
		cpu.Teleprinter = &testMailbox{empty: true}
		cpu.Display = &testMailbox{}

		err := cpu.Step(context.Background())
		if err != nil {
			assert.False(cpu.Running())
		}

		assert.LessOrEqual(cpu.Ac, WORD_MASK)
		assert.LessOrEqual(cpu.Link, Word(1))
		assert.LessOrEqual(cpu.Pc, ADDRESS_MASK)
		assert.LessOrEqual(cpu.Ma, ADDRESS_MASK)
		assert.LessOrEqual(cpu.Mb, WORD_MASK)

		// A halted CPU does not move.
		if !cpu.Running() {
			cycles := cpu.Cycles
			assert.Equal(ErrHalted, cpu.Step(context.Background()))
			assert.Equal(cycles, cpu.Cycles)
		}
	})
}
