package show

// lfsr4 is a 4-bit Fibonacci LFSR, taps at bits 0 and 2, shifting right.
type lfsr4 uint8

const (
	lfsrSeed   = 0x1
	lfsrEscape = 0x5 // replaces the all-zero lock-up state
)

func newLFSR4() *lfsr4 {
	r := lfsr4(lfsrSeed)
	return &r
}

// Next advances the register and returns the new pattern, never zero.
func (r *lfsr4) Next() uint8 {
	p := uint8(*r)
	fb := (p ^ (p >> 2)) & 1
	p = ((p >> 1) | (fb << 3)) & 0x0F
	if p == 0 {
		p = lfsrEscape
	}
	*r = lfsr4(p)
	return p
}
