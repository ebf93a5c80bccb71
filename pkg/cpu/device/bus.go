package device

// NumPorts is the size of the port window aliased onto data addresses
// [240, 256).
const NumPorts = 16

// Port indices.
const (
	PortPixelX         = 0
	PortPixelY         = 1
	PortDrawPixel      = 2
	PortClearPixel     = 3
	PortLoadPixel      = 4
	PortWriteChar      = 7
	PortShowNumber     = 10
	PortClearNumber    = 11
	PortSignedMode     = 12
	PortUnsignedMode   = 13
	PortRNG            = 14
	PortControllerIn   = 15
)

// Bus demultiplexes port reads/writes onto the device bank. Routing is a
// fixed-size table of handlers rather than a chain of equality tests.
// Unimplemented ports are no-ops on write and return 0 on read.
type Bus struct {
	Framebuffer   Framebuffer
	CharOutput    CharOutput
	NumberDisplay NumberDisplay
	RNG           *RNG
	Controller    Controller

	readHandlers  [NumPorts]func(*Bus) uint8
	writeHandlers [NumPorts]func(*Bus, uint8)
}

// NewBus returns a Bus wired with the default device set. rng may be nil,
// in which case a fresh non-deterministic RNG is constructed; ctrl may be
// nil, in which case NoController is used.
func NewBus(rng *RNG, ctrl Controller) *Bus {
	if rng == nil {
		rng = NewDefaultRNG()
	}
	if ctrl == nil {
		ctrl = NoController{}
	}
	b := &Bus{RNG: rng, Controller: ctrl}
	b.installHandlers()
	return b
}

func (b *Bus) installHandlers() {
	b.writeHandlers[PortPixelX] = func(bus *Bus, v uint8) { bus.Framebuffer.SetCursorX(v) }
	b.writeHandlers[PortPixelY] = func(bus *Bus, v uint8) { bus.Framebuffer.SetCursorY(v) }
	b.writeHandlers[PortDrawPixel] = func(bus *Bus, v uint8) { bus.Framebuffer.Draw() }
	b.writeHandlers[PortClearPixel] = func(bus *Bus, v uint8) { bus.Framebuffer.Clear() }
	b.readHandlers[PortLoadPixel] = func(bus *Bus) uint8 { return bus.Framebuffer.Load() }

	b.writeHandlers[PortWriteChar] = func(bus *Bus, v uint8) { bus.CharOutput.Write(v) }

	b.writeHandlers[PortShowNumber] = func(bus *Bus, v uint8) { bus.NumberDisplay.Show(v) }
	b.writeHandlers[PortClearNumber] = func(bus *Bus, v uint8) { bus.NumberDisplay.ClearValue() }
	b.writeHandlers[PortSignedMode] = func(bus *Bus, v uint8) { bus.NumberDisplay.SetSignedMode() }
	b.writeHandlers[PortUnsignedMode] = func(bus *Bus, v uint8) { bus.NumberDisplay.SetUnsignedMode() }

	b.readHandlers[PortRNG] = func(bus *Bus) uint8 { return bus.RNG.Byte() }
	b.readHandlers[PortControllerIn] = func(bus *Bus) uint8 { return bus.Controller.Read() }
}

// Read dispatches a read to the port at the given index (0..15). Returns 0
// for write-only or unimplemented ports.
func (b *Bus) Read(port int) uint8 {
	if port < 0 || port >= NumPorts || b.readHandlers[port] == nil {
		return 0
	}
	return b.readHandlers[port](b)
}

// Write dispatches a write to the port at the given index (0..15).
// Silently discarded for read-only or unimplemented ports.
func (b *Bus) Write(port int, value uint8) {
	if port < 0 || port >= NumPorts || b.writeHandlers[port] == nil {
		return
	}
	b.writeHandlers[port](b, value)
}

// Reset clears all stateful devices behind the bus. The RNG and Controller
// are not reset: they are injected collaborators, not core state.
func (b *Bus) Reset() {
	b.Framebuffer.Reset()
	b.CharOutput.Reset()
	b.NumberDisplay.Reset()
}
