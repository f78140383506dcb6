//go:build purego

package ntt

func hasSIMD() bool { return false }
