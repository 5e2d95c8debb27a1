package sampler

// pcg32 is the PCG XSH-RR 64/32 generator (O'Neill 2014). It is small,
// fast and allows O(1) deterministic re-seeding, which the render core
// relies on when it reassigns a worker's stream to a new tile.
type pcg32 struct {
	state uint64
	inc   uint64
}

const (
	pcg32DefaultState  = 0x853c49e6748fea9b
	pcg32DefaultStream = 0xda3e39cb94b95bdb
	pcg32Mult          = 0x5851f42d4c957f2d
)

func newPCG32(initstate, initseq uint64) pcg32 {
	p := pcg32{inc: (initseq << 1) | 1}
	p.nextUint32()
	p.state += initstate
	p.nextUint32()
	return p
}

func (p *pcg32) nextUint32() uint32 {
	old := p.state
	p.state = old*pcg32Mult + p.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// nextFloat64 returns a uniform variate in [0, 1) with 53 random bits
func (p *pcg32) nextFloat64() float64 {
	hi := uint64(p.nextUint32())
	lo := uint64(p.nextUint32())
	return float64(hi<<21|lo>>11) / (1 << 53)
}
