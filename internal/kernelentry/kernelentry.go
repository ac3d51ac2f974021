// Package kernelentry implements the final, non-returning handoff to the
// kernel (spec.md §4.6), once the caller has finalized the firmware memory
// map: disable interrupts, install the new page table root, set the architecture's
// MMU/paging control registers, activate the UEFI runtime virtual map
// where applicable, switch to the kernel stack, and jump to the entry
// point with the KernelArgs pointer in the architecture's chosen
// argument register.
//
// Enter returns a Transition value rather than performing the jump
// itself, so the orchestrator can log the assembled transition and so
// tests can assert its fields without ever executing Commit (spec.md
// §5's "never unwindable" design note: Commit is the point of no
// return and is never exercised by `go test`).
package kernelentry

// Transition is the fully assembled, about-to-happen jump to the kernel.
// Every field is informational except the closure Commit wraps.
type Transition struct {
	Root  uintptr
	Entry uintptr
	Args  uintptr
	Stack uintptr

	commit func()
}

// Commit performs the jump. It never returns.
func (t Transition) Commit() { t.commit() }
