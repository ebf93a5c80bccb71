package device

// Controller is the input device behind port 15. The default
// implementation always reports no input. A host may supply its own
// Controller to feed real input into the core.
type Controller interface {
	Read() uint8
}

// NoController is the zero-value Controller: always reports 0.
type NoController struct{}

// Read always returns 0.
func (NoController) Read() uint8 { return 0 }
