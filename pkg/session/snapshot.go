// Package session provides opt-in save/load of a debugger session snapshot
// outside the core package, gob-encoding the core's observable state. The
// core's fault log and lifecycle state are not captured, and a loaded
// Snapshot is a plain value: nothing here writes it back into a cpu.Core.
// The core package has no knowledge of this package: saving and loading a
// session is an explicit action taken by a host, not something the core
// does on its own.
package session

import (
	"encoding/gob"
	"io"

	"github.com/oisee/batpu2emu/pkg/cpu"
)

// Snapshot captures the observable state of a cpu.Core. The call stack is
// recorded by depth only, not by its return addresses.
type Snapshot struct {
	Program     []uint16
	PC          uint16
	Registers   [16]uint8
	Flags       cpu.FlagSet
	Halted      bool
	Steps       uint64
	Memory      [256]uint8
	Framebuffer [32][32]uint8
	CharBuffer  string
	NumberValue int16
	NumberSet   bool
	NumberSigned bool
	CallDepth   int
}

// Capture builds a Snapshot from the current state of core. It does not
// capture the loaded program's words directly from core (the Observer API
// doesn't expose the raw image), so callers that want the program
// round-tripped should pass it in via program.
func Capture(core *cpu.Core, program []uint16) Snapshot {
	value, present, signed := core.NumberDisplay()
	return Snapshot{
		Program:      append([]uint16(nil), program...),
		PC:           core.PC(),
		Registers:    core.Registers(),
		Flags:        core.Flags(),
		Halted:       core.Halted(),
		Steps:        core.InstructionCount(),
		Memory:       core.Memory(),
		Framebuffer:  core.Framebuffer(),
		CharBuffer:   core.CharBuffer(),
		NumberValue:  value,
		NumberSet:    present,
		NumberSigned: signed,
		CallDepth:    core.CallStackDepth(),
	}
}

// Save gob-encodes snap to w.
func Save(w io.Writer, snap Snapshot) error {
	return gob.NewEncoder(w).Encode(snap)
}

// Load gob-decodes a Snapshot from r.
func Load(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
