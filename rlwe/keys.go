// Package rlwe implements the BGV key generation, encryption and decryption
// primitives of spec §4.4 over the big-integer ring package.
package rlwe

import (
	"math/big"

	"github.com/atraykov02/bgvision/params"
	"github.com/atraykov02/bgvision/ring"
)

// SecretKey is a ternary ring element, normally held at the large modulus
// Q and retargeted to q on demand via WithModulus.
type SecretKey struct {
	Value *ring.Poly
}

// PublicKey is the pair (b, -a) satisfying b = a*sk + t*e for a small
// Gaussian e.
type PublicKey struct {
	B *ring.Poly
	A *ring.Poly // this already holds -a
}

// KeyGenerator draws secret and public keys for a fixed parameter set.
type KeyGenerator struct {
	params params.Parameters
	prng   ring.PRNG
}

// NewKeyGenerator builds a KeyGenerator over params, drawing randomness
// from prng.
func NewKeyGenerator(p params.Parameters, prng ring.PRNG) *KeyGenerator {
	return &KeyGenerator{params: p, prng: prng}
}

// GenSecretKey draws a fresh ternary secret key at modulus Q.
func (kg *KeyGenerator) GenSecretKey() (*SecretKey, error) {
	ts := ring.NewTernarySampler(kg.prng, kg.params.Ring())
	sk, err := ts.Read(kg.params.BigQ())
	if err != nil {
		return nil, err
	}
	return &SecretKey{Value: sk}, nil
}

// GenPublicKey draws a fresh RLWE public key (b, -a) for sk: a uniform,
// e Gaussian, b = a*sk + t*e.
func (kg *KeyGenerator) GenPublicKey(sk *SecretKey) (*PublicKey, error) {
	q := kg.params.BigQ()
	us := ring.NewUniformSampler(kg.prng, kg.params.Ring())
	gs := ring.NewGaussianSampler(kg.prng, kg.params.Ring())

	a, err := us.Read(q)
	if err != nil {
		return nil, err
	}
	e, err := gs.Read(q)
	if err != nil {
		return nil, err
	}

	aSk, err := a.Mul(sk.Value)
	if err != nil {
		return nil, err
	}
	tE := e.MulScalar(kg.params.TBig())
	b, err := aSk.Add(tE)
	if err != nil {
		return nil, err
	}
	return &PublicKey{B: b, A: a.Neg()}, nil
}

// GenPublicKeyAt draws a fresh RLWE public key for sk at an explicit
// modulus m, used by relinearization key generation which operates at
// whichever modulus the ciphertext currently sits at.
func (kg *KeyGenerator) GenPublicKeyAt(sk *SecretKey, m *big.Int) (*PublicKey, error) {
	r := kg.params.Ring()
	us := ring.NewUniformSampler(kg.prng, r)
	gs := ring.NewGaussianSampler(kg.prng, r)

	a, err := us.Read(m)
	if err != nil {
		return nil, err
	}
	e, err := gs.Read(m)
	if err != nil {
		return nil, err
	}
	aSk, err := a.Mul(sk.Value)
	if err != nil {
		return nil, err
	}
	tE := e.MulScalar(kg.params.TBig())
	b, err := aSk.Add(tE)
	if err != nil {
		return nil, err
	}
	return &PublicKey{B: b, A: a.Neg()}, nil
}
