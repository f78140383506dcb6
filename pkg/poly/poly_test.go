package poly

import (
	"math/rand"
	"testing"

	"mlkem-ring/pkg/field"
	"mlkem-ring/pkg/ntt"
)

func rangePolys() (a, b Poly) {
	for i := 0; i < field.N; i++ {
		a[i] = int16(i)
		b[i] = int16(i + 256)
	}
	return a, b
}

// Test schoolbook multiplication result (from Python)
func TestSchoolbookMulResult(t *testing.T) {
	a, b := rangePolys()

	q, r := SchoolbookMul(&a, &b)

	first := []int16{
		150, 1568, 427, 58, 463, 1644, 274, 3013,
		3205, 852, 2614, 1835, 1846, 2649, 917, 3310,
	}
	last := []int16{
		3072, 304, 2115, 1849, 2837, 1752, 1925, 29,
		2724, 25, 1921, 1756, 2861, 1909, 2231, 500,
	}
	quotient := []int16{
		3179, 2017, 342, 1482, 2107, 2216, 1808, 882,
		2766, 801, 1644, 1965, 1763, 1037, 3115, 1338,
	}
	for i, want := range first {
		if r[i] != want {
			t.Errorf("SchoolbookMul result[%d] = %d, want %d", i, r[i], want)
		}
	}
	for i, want := range last {
		if r[field.N-16+i] != want {
			t.Errorf("SchoolbookMul result[%d] = %d, want %d", field.N-16+i, r[field.N-16+i], want)
		}
	}
	for i, want := range quotient {
		if q[i] != want {
			t.Errorf("SchoolbookMul quotient[%d] = %d, want %d", i, q[i], want)
		}
	}
}

// mulNTT multiplies through the transform the way a KEM does: the first
// operand is reduced after the forward transform, the second is cached.
func mulNTT(a, b *Poly) Poly {
	var aNTT, bNTT, r Poly
	var cache MulCache
	Copy(&aNTT, a)
	Copy(&bNTT, b)
	aNTT.NTT()
	bNTT.NTT()
	aNTT.Reduce()
	bNTT.MulCacheCompute(&cache)
	r.BaseMulMontgomeryCached(&aNTT, &bNTT, &cache)
	r.InvNTTToMont()
	r.Reduce()
	return r
}

// Test NTT multiplication matches schoolbook on every backend
func TestNTTMulMatchesSchoolbook(t *testing.T) {
	defer SetBackend(Backend())

	a, b := rangePolys()
	_, rSchool := SchoolbookMul(&a, &b)

	rng := rand.New(rand.NewSource(1))
	var c, d Poly
	for i := range c {
		c[i] = int16(rng.Intn(2*field.Q-1) - (field.Q - 1))
		d[i] = int16(rng.Intn(2*field.Q-1) - (field.Q - 1))
	}
	_, rRandom := SchoolbookMul(&c, &d)

	for _, be := range ntt.Backends() {
		SetBackend(be)

		rNTT := mulNTT(&a, &b)
		if !Equal(&rNTT, &rSchool) {
			for i := 0; i < field.N; i++ {
				if rNTT[i] != rSchool[i] {
					t.Errorf("%s: first diff at [%d]: NTT=%d, schoolbook=%d", be.Name(), i, rNTT[i], rSchool[i])
					break
				}
			}
		}

		rNTT = mulNTT(&c, &d)
		if !Equal(&rNTT, &rRandom) {
			t.Errorf("%s: NTT multiplication of random inputs does not match schoolbook", be.Name())
		}
	}
}

// Test multiply by 1 returns original
func TestSchoolbookMulByOne(t *testing.T) {
	var a, one Poly
	for i := 0; i < field.N; i++ {
		a[i] = int16(i)
	}
	one[0] = 1 // one = 1 + 0*x + 0*x^2 + ...

	q, r := SchoolbookMul(&a, &one)

	// r should equal a
	if !Equal(&r, &a) {
		t.Error("Multiplying by 1 does not return original")
	}

	// q should be all zeros
	for i := 0; i < field.N; i++ {
		if q[i] != 0 {
			t.Errorf("Quotient[%d] = %d, want 0", i, q[i])
		}
	}
}

// x^255 * x = x^256 = -1
func TestSchoolbookMulWraps(t *testing.T) {
	var a, x Poly
	a[255] = 1
	x[1] = 1

	q, r := SchoolbookMul(&a, &x)

	if r[0] != field.Q-1 {
		t.Errorf("r[0] = %d, want %d", r[0], field.Q-1)
	}
	if q[0] != 1 {
		t.Errorf("q[0] = %d, want 1", q[0])
	}
}

// Test polynomial addition
func TestPolyAdd(t *testing.T) {
	var a, b, result Poly
	for i := 0; i < field.N; i++ {
		a[i] = 1
		b[i] = -2
	}

	Add(&a, &b, &result)

	for i := 0; i < field.N; i++ {
		if result[i] != -1 {
			t.Errorf("Add result[%d] = %d, want -1", i, result[i])
		}
	}
}

// Test polynomial subtraction
func TestPolySub(t *testing.T) {
	var a, b, result Poly
	for i := 0; i < field.N; i++ {
		a[i] = 5
		b[i] = 2
	}

	Sub(&a, &b, &result)

	for i := 0; i < field.N; i++ {
		if result[i] != 3 {
			t.Errorf("Sub result[%d] = %d, want 3", i, result[i])
		}
	}
}

func TestPolyReduce(t *testing.T) {
	var p Poly
	p[0] = -1
	p[1] = field.Q
	p[2] = -32768
	p[3] = 32767
	orig := p

	p.Reduce()

	for i := 0; i < field.N; i++ {
		if p[i] < 0 || p[i] >= field.Q {
			t.Errorf("Reduce[%d] = %d out of [0, Q)", i, p[i])
		}
		if p[i] != field.Mod(int64(orig[i])) {
			t.Errorf("Reduce[%d] = %d, want %d", i, p[i], field.Mod(int64(orig[i])))
		}
	}
}

func TestPolyToMont(t *testing.T) {
	var p Poly
	for i := range p {
		p[i] = int16(i*131 - 16000)
	}
	orig := p

	p.ToMont()

	for i := range p {
		if field.Mod(int64(p[i])) != field.Mod(int64(orig[i])*field.MontR) {
			t.Fatalf("ToMont[%d] = %d, want %d mod Q", i, p[i], field.Mod(int64(orig[i])*field.MontR))
		}
	}
	if p.AbsMax() >= field.Q {
		t.Errorf("ToMont output %d not below Q", p.AbsMax())
	}
}

// Test polynomial AbsMax
func TestPolyAbsMax(t *testing.T) {
	var p Poly
	p[0] = 5
	p[1] = 10
	p[2] = 3

	if p.AbsMax() != 10 {
		t.Errorf("AbsMax = %d, want 10", p.AbsMax())
	}

	p[3] = -100
	if p.AbsMax() != 100 {
		t.Errorf("AbsMax with negative = %d, want 100", p.AbsMax())
	}

	p[4] = -32768
	if p.AbsMax() != 32768 {
		t.Errorf("AbsMax of int16 minimum = %d, want 32768", p.AbsMax())
	}
}

func TestEqualModQ(t *testing.T) {
	var a, b Poly
	a[0] = 1
	b[0] = 1 - field.Q
	if Equal(&a, &b) {
		t.Error("Equal should compare representatives")
	}
	if !EqualModQ(&a, &b) {
		t.Error("EqualModQ should compare residues")
	}
}

func BenchmarkMulNTT(b *testing.B) {
	x, y := rangePolys()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mulNTT(&x, &y)
	}
}
