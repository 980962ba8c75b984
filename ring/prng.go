package ring

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/blake2b"
)

// PRNG is the source of randomness for every sampler in this package. The
// core is otherwise deterministic; PRNG is the single injection hook
// tests use to make a run reproducible (spec §5).
type PRNG interface {
	Read(buf []byte) (int, error)
}

// keyedPRNG is a counter-mode keystream built from a keyed blake2b, the
// same "keyed hash as a PRF" construction lattigo documents for its own
// sampler backend. Seeding it with a fixed 32-byte key makes every draw
// thereafter reproducible; seeding it from crypto/rand (the default) makes
// it a process-wide cryptographically seeded generator.
type keyedPRNG struct {
	key     [32]byte
	counter uint64
}

// NewKeyedPRNG builds a PRNG keyed from seed. A nil seed draws a fresh
// 32-byte key from crypto/rand; a non-nil seed (any length) is hashed down
// to a key, giving deterministic tests an injection hook.
func NewKeyedPRNG(seed []byte) (PRNG, error) {
	var key [32]byte
	if seed == nil {
		var raw [32]byte
		if _, err := rand.Read(raw[:]); err != nil {
			return nil, err
		}
		key = raw
	} else {
		key = blake2b.Sum256(seed)
	}
	return &keyedPRNG{key: key}, nil
}

func (p *keyedPRNG) Read(buf []byte) (int, error) {
	out := buf
	for len(out) > 0 {
		var ctr [8]byte
		binary.LittleEndian.PutUint64(ctr[:], p.counter)
		p.counter++
		mac, err := blake2b.New256(p.key[:])
		if err != nil {
			return 0, err
		}
		mac.Write(ctr[:])
		block := mac.Sum(nil)
		n := copy(out, block)
		out = out[n:]
	}
	return len(buf), nil
}

// randomBigInt returns a uniform random value in [0, max) by rejection
// sampling over PRNG bytes.
func randomBigInt(prng PRNG, max *big.Int) (*big.Int, error) {
	if max.Sign() <= 0 {
		return new(big.Int), nil
	}
	nBytes := (max.BitLen() + 8) / 8
	if nBytes == 0 {
		nBytes = 1
	}
	buf := make([]byte, nBytes)
	for {
		if _, err := prng.Read(buf); err != nil {
			return nil, err
		}
		v := new(big.Int).SetBytes(buf)
		if v.Cmp(max) < 0 {
			return v, nil
		}
	}
}

// randomUint64 returns a uniform random uint64 drawn from the PRNG.
func randomUint64(prng PRNG) (uint64, error) {
	var buf [8]byte
	if _, err := prng.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// uniformFloat01 returns a uniform float64 in [0, 1).
func uniformFloat01(prng PRNG) (float64, error) {
	v, err := randomUint64(prng)
	if err != nil {
		return 0, err
	}
	const mantissaBits = 53
	return float64(v>>(64-mantissaBits)) / float64(uint64(1)<<mantissaBits), nil
}
