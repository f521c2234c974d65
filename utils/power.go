package utils

// NextPowerOfTwo returns the smallest 2^n >= x with n >= 1.
func NextPowerOfTwo(x int) int {
	return 1 << max(Log2Ceil(x), 1)
}

// Log2Ceil returns the smallest n with 2^n >= x.
func Log2Ceil(x int) int {
	n := 0
	for x > (1 << n) {
		n++
	}
	return n
}

func IsPowerOfTwo(x int) bool {
	return x > 0 && x&(x-1) == 0
}
