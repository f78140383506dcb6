package ntt

// Zeta tables. Every entry is a power of the primitive 256th root of unity
// 17, in Montgomery form and signed canonical representation, so that
// |zeta| <= (Q-1)/2:
//
//	Zetas[i] = signed(17^brv7(i) * 2^16 mod Q)
//
// The following Python code generates the flat table:
//
//	q = 3329; R = 2**16
//	def brv(x): return int(bin(x)[2:].zfill(7)[::-1], 2)
//	def signed(a): a %= q; return a - q if a >= q/2 else a
//	print([signed(pow(17, brv(i), q) * R) for i in range(128)])
//
// The per-layer tables below are slices of Zetas grouped the way the
// merged layers consume them. They are spelled out as literals so the
// compiler sees constants in the butterfly loops.

// Zetas is the flat bit-reversed table. Layer l (1..7) uses entries
// [2^(l-1), 2^l).
var Zetas = [128]int16{
	-1044, -758, -359, -1517, 1493, 1422, 287, 202,
	-171, 622, 1577, 182, 962, -1202, -1474, 1468,
	573, -1325, 264, 383, -829, 1458, -1602, -130,
	-681, 1017, 732, 608, -1542, 411, -205, -1571,
	1223, 652, -552, 1015, -1293, 1491, -282, -1544,
	516, -8, -320, -666, -1618, -1162, 126, 1469,
	-853, -90, -271, 830, 107, -1421, -247, -951,
	-398, 961, -1508, -725, 448, -1065, 677, -1275,
	-1103, 430, 555, 843, -1251, 871, 1550, 105,
	422, 587, 177, -235, -291, -460, 1574, 1653,
	-246, 778, 1159, -147, -777, 1483, -602, 1119,
	-1590, 644, -872, 349, 418, 329, -156, -75,
	817, 1097, 603, 610, 1322, -1285, -1465, 384,
	-1215, -136, 1218, -1335, -874, 220, -1187, -1659,
	-1185, -1530, -1278, 794, -1510, -854, -870, 478,
	-108, -308, 996, 991, 958, -1460, 1522, 1628,
}

const (
	l1Zeta1 = -758

	l2Zeta2 = -359
	l2Zeta3 = -1517

	l3Zeta4 = 1493
	l3Zeta5 = 1422
	l3Zeta6 = 287
	l3Zeta7 = 202
)

// layer4Zetas[s] is the layer-4 twiddle of subtree s.
var layer4Zetas = [8]int16{
	-171, 622, 1577, 182, 962, -1202, -1474, 1468,
}

// layer5EvenZetas[s] and layer5OddZetas[s] are the layer-5 twiddles of the
// two children of subtree s.
var layer5EvenZetas = [8]int16{
	573, 264, -829, -1602, -681, 732, -1542, -205,
}

var layer5OddZetas = [8]int16{
	-1325, 383, 1458, -130, 1017, 608, 411, -1571,
}

var layer6Zetas = [32]int16{
	1223, 652, -552, 1015, -1293, 1491, -282, -1544,
	516, -8, -320, -666, -1618, -1162, 126, 1469,
	-853, -90, -271, 830, 107, -1421, -247, -951,
	-398, 961, -1508, -725, 448, -1065, 677, -1275,
}

// Layer7Zetas is shared with the mulcache: pair i of the NTT domain lives in
// Z_q[X]/(X^2 - Layer7Zetas[i]) and its neighbour in Z_q[X]/(X^2 + Layer7Zetas[i]).
var Layer7Zetas = [64]int16{
	-1103, 430, 555, 843, -1251, 871, 1550, 105,
	422, 587, 177, -235, -291, -460, 1574, 1653,
	-246, 778, 1159, -147, -777, 1483, -602, 1119,
	-1590, 644, -872, 349, 418, 329, -156, -75,
	817, 1097, 603, 610, 1322, -1285, -1465, 384,
	-1215, -136, 1218, -1335, -874, 220, -1187, -1659,
	-1185, -1530, -1278, 794, -1510, -854, -870, 478,
	-108, -308, 996, 991, 958, -1460, 1522, 1628,
}
