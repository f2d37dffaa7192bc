package pcg

const goldenRatio64 = 0x9e3779b97f4a7c15

// DeriveSeeds expands one 64-bit seed into an (initstate, initseq) pair via
// splitmix-style finalisation, so call sites that hold a single scalar seed
// still land on well-separated streams.
func DeriveSeeds(seed uint64) (initstate, initseq uint64) {
	return mix(seed), mix(seed + goldenRatio64)
}

// DeriveSeedList expands one 64-bit seed into n (initstate, initseq) pairs
// for seeding a collection of generators from a single scalar seed. Each
// cell gets its own sequence selector, so the resulting streams never
// overlap.
func DeriveSeedList(seed uint64, n int) (initstates, initseqs []uint64) {
	initstates = make([]uint64, n)
	initseqs = make([]uint64, n)
	for i := range initstates {
		initstates[i], initseqs[i] = DeriveSeeds(seed + uint64(i)*goldenRatio64)
	}
	return initstates, initseqs
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
