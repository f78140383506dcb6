//go:build !purego

package ntt

import "golang.org/x/sys/cpu"

func hasSIMD() bool {
	return cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD
}
