package bios

// carryFlag is bit 0 of EFLAGS, the x86 convention the BIOS uses to
// signal call failure (spec.md §4.2).
const carryFlag = 1

// RealCaller is the live Int13hCaller: it drives the shared Frame through
// the externally supplied real-mode stub for one BIOS interrupt vector.
// Every BIOS service this package calls (INT 13h, 10h, 15h, 16h) shares
// the same frame/stub pair; each vector gets its own RealCaller.
type RealCaller struct {
	frame *Frame
	stub  ThunkStub
	intNo uint8
}

// NewRealCaller binds a RealCaller to a specific BIOS interrupt vector.
func NewRealCaller(frame *Frame, stub ThunkStub, intNo uint8) *RealCaller {
	return &RealCaller{frame: frame, stub: stub, intNo: intNo}
}

func (c *RealCaller) Call(in RegisterFrame) (RegisterFrame, bool) {
	out := c.frame.With(in, c.intNo, c.stub)
	return out, out.EFlags&carryFlag != 0
}
