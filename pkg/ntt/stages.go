package ntt

import "mlkem-ring/pkg/field"

// Stage is one merged group of layers of the portable transform together
// with the bound its output is guaranteed to meet, given an input that
// meets the bound of the previous stage.
type Stage struct {
	Name  string
	Bound int16
	Apply func(r *[field.N]int16)
}

// ForwardStages returns the stages of NTT in execution order. The input
// bound of the first stage is Bound1.
func ForwardStages() []Stage {
	return []Stage{
		{Name: "layer123", Bound: Bound4, Apply: layer123},
		{Name: "layer45", Bound: Bound6, Apply: layer45},
		{Name: "layer6", Bound: Bound7, Apply: layer6},
		{Name: "layer7", Bound: Bound8, Apply: layer7},
	}
}

// InverseStages returns the stages of InvNTT in execution order. The first
// stage accepts any int16 input.
func InverseStages() []Stage {
	return []Stage{
		{Name: "invlayer7", Bound: Bound1, Apply: invLayer7Invert},
		{Name: "invlayer6", Bound: Bound2, Apply: invLayer6},
		{Name: "invlayer54", Bound: Bound1, Apply: invLayer54},
		{Name: "invlayer321", Bound: Bound8, Apply: invLayer321},
	}
}
