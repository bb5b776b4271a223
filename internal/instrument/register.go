package instrument

import (
	"fmt"
	"strings"
)

// Register names a general purpose x86-64 register readable at a probe site.
type Register uint8

const (
	RAX Register = iota
	RBX
	RCX
	RDX
	RSI
	RDI
	RBP
	RSP
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	RIP

	registerCount
)

var registerNames = [registerCount]string{
	RAX: "Rax", RBX: "Rbx", RCX: "Rcx", RDX: "Rdx",
	RSI: "Rsi", RDI: "Rdi", RBP: "Rbp", RSP: "Rsp",
	R8: "R8", R9: "R9", R10: "R10", R11: "R11",
	R12: "R12", R13: "R13", R14: "R14", R15: "R15",
	RIP: "Rip",
}

// Valid reports whether r is one of the named registers.
func (r Register) Valid() bool {
	return r < registerCount
}

func (r Register) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Register(%d)", uint8(r))
	}
	return registerNames[r]
}

// ParseRegister accepts register names in any case ("rcx", "Rcx", "RCX").
func ParseRegister(s string) (Register, error) {
	for r, name := range registerNames {
		if strings.EqualFold(name, s) {
			return Register(r), nil
		}
	}
	return 0, fmt.Errorf("unknown register %q", s)
}

func (r Register) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid register %d", uint8(r))
	}
	return []byte(registerNames[r]), nil
}

func (r *Register) UnmarshalText(text []byte) error {
	parsed, err := ParseRegister(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Registers is the CPU state captured when a probe fires.
// It is passed by value so the probe path does not allocate.
type Registers [registerCount]uint64

// Value returns the captured value of reg. Invalid registers read as zero.
func (r Registers) Value(reg Register) uint64 {
	if !reg.Valid() {
		return 0
	}
	return r[reg]
}

// With returns a copy of r with reg set to v.
func (r Registers) With(reg Register, v uint64) Registers {
	if reg.Valid() {
		r[reg] = v
	}
	return r
}
