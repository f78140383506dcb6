//go:build !mlkemdebug

package ntt

func checkBound([]int16, int16, string) {}
