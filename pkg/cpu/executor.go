// Package cpu implements the BatPU-2 execution engine: register file,
// flags, call stack, data memory with MMIO port routing, and the
// fetch-decode-execute loop. The package has no knowledge of assemblers,
// CLIs, HTTP front-ends, or file I/O — it is driven purely through
// Load/Step/Run/Reset and observed through the accessors below.
package cpu

import (
	"github.com/oisee/batpu2emu/pkg/cpu/device"
	"github.com/oisee/batpu2emu/pkg/isa"
)

// State is the lifecycle state of a Core.
type State uint8

const (
	Ready State = iota
	Running
	Halted
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Halted:
		return "Halted"
	default:
		return "Unknown"
	}
}

// MaxProgramWords is the instruction memory size.
const MaxProgramWords = 1024

// Core is a single BatPU-2 CPU instance. It holds no process-global state;
// multiple Cores may coexist.
type Core struct {
	program []uint16

	regs      RegisterFile
	flags     FlagSet
	callStack CallStack
	memory    *DataMemory
	faults    faultLog

	pc     uint16
	halted bool
	steps  uint64

	state State
}

// Option configures a Core at construction time.
type Option func(*Core)

// WithRNG injects a specific byte source for port 14, for reproducible
// tests.
func WithRNG(rng *device.RNG) Option {
	return func(c *Core) {
		c.memory.Bus.RNG = rng
	}
}

// WithController injects a controller-input device for port 15.
func WithController(ctrl device.Controller) Option {
	return func(c *Core) {
		c.memory.Bus.Controller = ctrl
	}
}

// New constructs a Core with an empty program, in the Ready state.
func New(opts ...Option) *Core {
	bus := device.NewBus(nil, nil)
	c := &Core{
		memory: NewDataMemory(bus),
		state:  Ready,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load installs a new program image and transitions to Ready with PC=0.
// The image is immutable until the next Load.
func (c *Core) Load(words []uint16) {
	c.program = make([]uint16, len(words))
	copy(c.program, words)
	c.pc = 0
	c.halted = false
	c.state = Ready
}

// Step executes one instruction. Returns false if the core is already
// halted or PC is out of range (transitioning to Halted without executing
// anything), true otherwise.
func (c *Core) Step() bool {
	if c.halted || int(c.pc) >= len(c.program) {
		c.halted = true
		c.state = Halted
		return false
	}

	word := c.program[c.pc]
	ins := isa.Decode(word)
	nextPC := c.exec(ins, c.pc)

	c.pc = nextPC & 0x3FF
	c.steps++
	if c.halted {
		c.state = Halted
	} else {
		c.state = Running
	}
	return true
}

// RunResult reports why Run stopped.
type RunResult uint8

const (
	RunHalted RunResult = iota
	RunBudgetExhausted
)

// Run repeatedly steps until Step returns false or maxSteps instructions
// have been retired, whichever comes first. The core remains in Running
// state (resumable) if the budget was exhausted without halting.
func (c *Core) Run(maxSteps uint64) RunResult {
	var n uint64
	for n < maxSteps {
		if !c.Step() {
			return RunHalted
		}
		n++
	}
	if !c.halted {
		c.faults.record(FaultInstructionBudgetExhausted, c.pc)
		return RunBudgetExhausted
	}
	return RunHalted
}

// Reset clears registers, memory, flags, call stack, devices, instruction
// counter, PC, and halted flag. The loaded program image is preserved.
func (c *Core) Reset() {
	c.regs.Reset()
	c.flags.Reset()
	c.callStack.Reset()
	c.memory.Reset()
	c.faults.reset()
	c.pc = 0
	c.halted = false
	c.steps = 0
	c.state = Ready
}

// --- Observer API ---

// PC returns the current program counter.
func (c *Core) PC() uint16 { return c.pc }

// Registers returns a snapshot of all 16 registers (cell 0 forced to 0).
func (c *Core) Registers() [16]uint8 { return c.regs.Snapshot() }

// Flags returns the current Zero/Carry flags.
func (c *Core) Flags() FlagSet { return c.flags }

// Halted reports whether the core has halted.
func (c *Core) Halted() bool { return c.halted }

// InstructionCount returns the monotonic count of retired instructions.
func (c *Core) InstructionCount() uint64 { return c.steps }

// Memory returns a snapshot of the [0,256) data address space (RAM only;
// the port window has no separately addressable backing state).
func (c *Core) Memory() [256]uint8 { return c.memory.Snapshot() }

// Framebuffer returns a snapshot of the 32x32 pixel grid.
func (c *Core) Framebuffer() [32][32]uint8 { return c.memory.Bus.Framebuffer.Snapshot() }

// CharBuffer returns the accumulated character output.
func (c *Core) CharBuffer() string { return c.memory.Bus.CharOutput.String() }

// NumberDisplay returns the latched value (if any) and whether signed mode
// is active.
func (c *Core) NumberDisplay() (value int16, present bool, signed bool) {
	v, ok := c.memory.Bus.NumberDisplay.Value()
	return v, ok, c.memory.Bus.NumberDisplay.Signed()
}

// CallStackDepth returns the current call stack depth, in [0, 16].
func (c *Core) CallStackDepth() int { return c.callStack.Depth() }

// ProgramLength returns the number of loaded program words.
func (c *Core) ProgramLength() int { return len(c.program) }

// LastFaults returns the bounded soft-fault diagnostics log.
func (c *Core) LastFaults() []Fault { return c.faults.snapshot() }

// LifecycleState returns the Ready/Running/Halted state.
func (c *Core) LifecycleState() State { return c.state }

// Disassemble renders the program word at the given PC.
func (c *Core) Disassemble(pc uint16) string {
	if int(pc) >= len(c.program) {
		return ""
	}
	return isa.Disassemble(c.program[pc])
}
