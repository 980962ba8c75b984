package rlwe

import (
	"github.com/atraykov02/bgvision/params"
	"github.com/atraykov02/bgvision/ring"
)

// Encryptor encrypts plaintexts under a fixed public key.
type Encryptor struct {
	params params.Parameters
	pk     *PublicKey
	prng   ring.PRNG
}

// NewEncryptor builds an Encryptor for pk.
func NewEncryptor(p params.Parameters, pk *PublicKey, prng ring.PRNG) *Encryptor {
	return &Encryptor{params: p, pk: pk, prng: prng}
}

// Encrypt masks pt with a fresh RLWE instance: c0 = pk0*u + t*e0 + m,
// c1 = pk1*u + t*e1, at modulus Q.
func (enc *Encryptor) Encrypt(pt *Plaintext) (*Ciphertext, error) {
	q := enc.params.BigQ()
	r := enc.params.Ring()

	m, err := pt.asRingElement(q, r)
	if err != nil {
		return nil, err
	}

	ts := ring.NewTernarySampler(enc.prng, r)
	gs := ring.NewGaussianSampler(enc.prng, r)

	u, err := ts.Read(q)
	if err != nil {
		return nil, err
	}
	e0, err := gs.Read(q)
	if err != nil {
		return nil, err
	}
	e1, err := gs.Read(q)
	if err != nil {
		return nil, err
	}

	pk0u, err := enc.pk.B.Mul(u)
	if err != nil {
		return nil, err
	}
	te0 := e0.MulScalar(enc.params.TBig())
	c0, err := pk0u.Add(te0)
	if err != nil {
		return nil, err
	}
	c0, err = c0.Add(m)
	if err != nil {
		return nil, err
	}

	pk1u, err := enc.pk.A.Mul(u)
	if err != nil {
		return nil, err
	}
	te1 := e1.MulScalar(enc.params.TBig())
	c1, err := pk1u.Add(te1)
	if err != nil {
		return nil, err
	}

	return &Ciphertext{C0: c0, C1: c1}, nil
}
