//go:build mlkemdebug

package ntt

import "fmt"

// checkBound panics if any coefficient of r exceeds bound in absolute value.
func checkBound(r []int16, bound int16, msg string) {
	for i, c := range r {
		if c > bound || c < -bound {
			panic(fmt.Sprintf("ntt: %s: |r[%d]| = %d exceeds bound %d", msg, i, c, bound))
		}
	}
}
