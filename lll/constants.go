package lll

// Public re-exports of the derived constants spec.md §6 bakes into the
// kernel (SPEC_FULL.md §7): external callers benchmarking a specific
// precision tier, or wiring their own verifier threshold, read these
// rather than duplicating the magic numbers.
const (
	// CPUSize1 is the mantissa width the fast machine-word rounding path
	// assumes (64-bit build).
	CPUSize1 = cpuSize1Bits
	// MaxLong is the largest machine-word rounded multiplier the fast
	// path in babai handles before falling back to the mantissa+exponent
	// split.
	MaxLong = 1<<cpuSize1Bits - 1
	// SizeRedFailureThresh bounds the allowed mantissa-exponent
	// regression between successive Babai re-examinations.
	SizeRedFailureThresh = 5
)

// cpuSize1Bits mirrors babai's unexported cpuSize1: kept as a separate
// constant here (rather than importing it) since lll only needs the
// numeric value, not babai's internal helpers.
const cpuSize1Bits = 53

// dBits is the initial precision (bits) the wrapper starts its
// high-precision escalation at (spec.md §4.3: "one double-word").
const dBits = cpuSize1Bits
