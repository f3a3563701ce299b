package hdc

import (
	"encoding/binary"
	"math/rand"
)

// seedFromName folds a name into an int64 seed using the same running-hash
// shape the teacher's mock embedder uses for deterministic text vectors:
// seed = seed*31 + rune, then a seeded RNG derives the vector bytes. Mixing
// in theoryID lets the same name produce different vectors in different
// theories when a strategy wants that (most don't and pass "").
func seedFromName(name, theoryID string) int64 {
	var seed int64
	for _, c := range name {
		seed = seed*31 + int64(c)
	}
	for _, c := range theoryID {
		seed = seed*31 + int64(c)
	}
	return seed
}

// rngBytes draws n deterministic bytes from a seeded RNG.
func rngBytes(seed int64, n int) []byte {
	rng := rand.New(rand.NewSource(seed))
	out := make([]byte, n)
	rng.Read(out)
	return out
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

func hammingDistance(a, b []byte) int {
	dist := 0
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dist += popcount(a[i] ^ b[i])
	}
	return dist
}

func bitLen(bytesLen int) int { return bytesLen * 8 }

func getBit(data []byte, i int) int {
	byteIdx := i / 8
	bitIdx := uint(i % 8)
	if byteIdx >= len(data) {
		return 0
	}
	return int((data[byteIdx] >> bitIdx) & 1)
}

func setBit(data []byte, i int, v int) {
	byteIdx := i / 8
	bitIdx := uint(i % 8)
	if v != 0 {
		data[byteIdx] |= 1 << bitIdx
	} else {
		data[byteIdx] &^= 1 << bitIdx
	}
}

func byteLenForBits(geometry int) int {
	return (geometry + 7) / 8
}

func encodeSparse(sp map[int]int16) []byte {
	buf := make([]byte, 0, len(sp)*6+4)
	var head [4]byte
	binary.BigEndian.PutUint32(head[:], uint32(len(sp)))
	buf = append(buf, head[:]...)
	for pos, coeff := range sp {
		var entry [6]byte
		binary.BigEndian.PutUint32(entry[0:4], uint32(int32(pos)))
		binary.BigEndian.PutUint16(entry[4:6], uint16(coeff))
		buf = append(buf, entry[:]...)
	}
	return buf
}

func decodeSparse(data []byte) map[int]int16 {
	sp := make(map[int]int16)
	if len(data) < 4 {
		return sp
	}
	count := int(binary.BigEndian.Uint32(data[0:4]))
	off := 4
	for i := 0; i < count && off+6 <= len(data); i++ {
		pos := int(int32(binary.BigEndian.Uint32(data[off : off+4])))
		coeff := int16(binary.BigEndian.Uint16(data[off+4 : off+6]))
		sp[pos] = coeff
		off += 6
	}
	return sp
}
