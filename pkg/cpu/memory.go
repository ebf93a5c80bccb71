package cpu

import "github.com/oisee/batpu2emu/pkg/cpu/device"

// ramSize is the number of plain RAM cells; addresses at or above this
// value alias onto the device bus.
const ramSize = 240

// dataMemSize is the full 256-byte data address space.
const dataMemSize = 256

// DataMemory is the 256-byte data address space: [0, 240) is linear RAM,
// [240, 256) is a 16-slot window onto the device bus.
type DataMemory struct {
	ram [ramSize]uint8
	Bus *device.Bus
}

// NewDataMemory returns a DataMemory backed by the given device bus.
func NewDataMemory(bus *device.Bus) *DataMemory {
	return &DataMemory{Bus: bus}
}

// Read reads the byte at addr (mod 256). Addresses >= 240 route to the
// device bus.
func (m *DataMemory) Read(addr uint8) uint8 {
	if int(addr) >= ramSize {
		return m.Bus.Read(int(addr) - ramSize)
	}
	return m.ram[addr]
}

// Write writes v at addr (mod 256). Addresses >= 240 route to the device
// bus; addresses below 240 are unaffected by port writes.
func (m *DataMemory) Write(addr uint8, v uint8) {
	if int(addr) >= ramSize {
		m.Bus.Write(int(addr)-ramSize, v)
		return
	}
	m.ram[addr] = v
}

// Snapshot returns the full [0,256) address space: RAM cells directly,
// port-window cells as 0 (ports are not memory-backed; the port bytes are
// not separately addressable state). A LOD from a port address reads the
// device instead, so it can differ from the 0 reported here.
func (m *DataMemory) Snapshot() [dataMemSize]uint8 {
	var out [dataMemSize]uint8
	copy(out[:ramSize], m.ram[:])
	return out
}

// Reset zeroes RAM and the devices behind the bus.
func (m *DataMemory) Reset() {
	m.ram = [ramSize]uint8{}
	m.Bus.Reset()
}
