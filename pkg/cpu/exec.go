package cpu

import "github.com/oisee/batpu2emu/pkg/isa"

// exec dispatches one decoded instruction against the core's state. It
// returns the next PC: a single switch over the closed 16-opcode enum,
// with small ALU helpers inlined per case.
func (c *Core) exec(ins isa.Instruction, pc uint16) uint16 {
	nextPC := pc + 1

	switch ins.Opcode {
	case isa.NOP:
		// no-op

	case isa.HLT:
		c.halted = true
		return pc // PC does not advance on HLT

	case isa.ADD:
		a, b := c.regs.Get(ins.A), c.regs.Get(ins.B)
		sum := uint16(a) + uint16(b)
		result := uint8(sum)
		c.flags.Carry = sum > 255
		c.flags.setZeroFrom(result)
		c.regs.Set(ins.C, result)

	case isa.SUB:
		a, b := c.regs.Get(ins.A), c.regs.Get(ins.B)
		result := a - b
		c.flags.Carry = a >= b // no borrow
		c.flags.setZeroFrom(result)
		c.regs.Set(ins.C, result)

	case isa.NOR:
		a, b := c.regs.Get(ins.A), c.regs.Get(ins.B)
		result := ^(a | b)
		c.flags.setZeroFrom(result)
		c.regs.Set(ins.C, result)

	case isa.AND:
		a, b := c.regs.Get(ins.A), c.regs.Get(ins.B)
		result := a & b
		c.flags.setZeroFrom(result)
		c.regs.Set(ins.C, result)

	case isa.XOR:
		a, b := c.regs.Get(ins.A), c.regs.Get(ins.B)
		result := a ^ b
		c.flags.setZeroFrom(result)
		c.regs.Set(ins.C, result)

	case isa.RSH:
		a := c.regs.Get(ins.A)
		c.flags.Carry = a&1 != 0
		result := a >> 1
		c.flags.setZeroFrom(result)
		c.regs.Set(ins.C, result)

	case isa.LDI:
		// Flags unchanged.
		c.regs.Set(ins.A, ins.Imm8)

	case isa.ADI:
		a := c.regs.Get(ins.A)
		raw := int(a) + int(ins.Imm8Signed)
		c.flags.Carry = raw > 255 || raw < 0
		result := uint8(uint16(raw))
		c.flags.setZeroFrom(result)
		c.regs.Set(ins.A, result)

	case isa.JMP:
		nextPC = ins.Imm10

	case isa.BRH:
		if c.branchTaken(ins.Cond) {
			nextPC = ins.Imm10
		}

	case isa.CAL:
		if c.callStack.Push(pc + 1) {
			nextPC = ins.Imm10
		} else {
			c.faults.record(FaultCallStackOverflow, pc)
			// call not performed; PC advances normally
		}

	case isa.RET:
		if addr, ok := c.callStack.Pop(); ok {
			nextPC = addr
		} else {
			c.faults.record(FaultCallStackUnderflow, pc)
			// PC advances to pc+1, already the default
		}

	case isa.LOD:
		addr := uint8(c.regs.Get(ins.B) + uint8(ins.Offset))
		c.regs.Set(ins.A, c.memory.Read(addr))

	case isa.STR:
		addr := uint8(c.regs.Get(ins.A) + uint8(ins.Offset))
		c.memory.Write(addr, c.regs.Get(ins.B))
	}

	return nextPC
}

// branchTaken evaluates a BRH predicate against the current flags.
func (c *Core) branchTaken(cond isa.Condition) bool {
	switch cond {
	case isa.CondEQ:
		return c.flags.Zero
	case isa.CondNE:
		return !c.flags.Zero
	case isa.CondGE:
		return c.flags.Carry
	case isa.CondLT:
		return !c.flags.Carry
	default:
		return false
	}
}
