package rlwe

import (
	"math/big"

	"github.com/atraykov02/bgvision/params"
	"github.com/atraykov02/bgvision/ring"
)

// Decryptor decrypts ciphertexts under a fixed secret key.
type Decryptor struct {
	params params.Parameters
	sk     *SecretKey
}

// NewDecryptor builds a Decryptor for sk.
func NewDecryptor(p params.Parameters, sk *SecretKey) *Decryptor {
	return &Decryptor{params: p, sk: sk}
}

// Decrypt computes d = c0 + c1*sk and returns (d mod t, max|d_i|). sk is
// retargeted to the ciphertext's own modulus first, so a caller may decrypt
// a switched ciphertext with the same Decryptor.
func (dec *Decryptor) Decrypt(ct *Ciphertext) ([]*big.Int, *big.Int, error) {
	skView, err := dec.secretAt(ct.C0.Q)
	if err != nil {
		return nil, nil, err
	}
	c1sk, err := ct.C1.Mul(skView)
	if err != nil {
		return nil, nil, err
	}
	d, err := ct.C0.Add(c1sk)
	if err != nil {
		return nil, nil, err
	}
	return finish(d, dec.params.TBig())
}

// DecryptQuadratic evaluates d = c0 + c1*sk + c2*sk^2, used to verify
// intermediate multiplication products before relinearization.
func (dec *Decryptor) DecryptQuadratic(ct *Ciphertext) ([]*big.Int, *big.Int, error) {
	skView, err := dec.secretAt(ct.C0.Q)
	if err != nil {
		return nil, nil, err
	}
	c1sk, err := ct.C1.Mul(skView)
	if err != nil {
		return nil, nil, err
	}
	d, err := ct.C0.Add(c1sk)
	if err != nil {
		return nil, nil, err
	}
	if ct.C2 != nil {
		sk2, err := skView.Mul(skView)
		if err != nil {
			return nil, nil, err
		}
		c2sk2, err := ct.C2.Mul(sk2)
		if err != nil {
			return nil, nil, err
		}
		d, err = d.Add(c2sk2)
		if err != nil {
			return nil, nil, err
		}
	}
	return finish(d, dec.params.TBig())
}

// NoiseVector returns the raw centered coefficients of c0 + c1*sk (or the
// quadratic form when ct still carries a c2 term), without reducing modulo
// t. Callers that only need the scalar noise magnitude should use Decrypt;
// this is for callers that want the full distribution, e.g. the engine's
// noise diagnostics.
func (dec *Decryptor) NoiseVector(ct *Ciphertext) ([]*big.Int, error) {
	skView, err := dec.secretAt(ct.C0.Q)
	if err != nil {
		return nil, err
	}
	c1sk, err := ct.C1.Mul(skView)
	if err != nil {
		return nil, err
	}
	d, err := ct.C0.Add(c1sk)
	if err != nil {
		return nil, err
	}
	if ct.C2 != nil {
		sk2, err := skView.Mul(skView)
		if err != nil {
			return nil, err
		}
		c2sk2, err := ct.C2.Mul(sk2)
		if err != nil {
			return nil, err
		}
		d, err = d.Add(c2sk2)
		if err != nil {
			return nil, err
		}
	}
	return d.Coeffs, nil
}

func (dec *Decryptor) secretAt(q *big.Int) (*ring.Poly, error) {
	if dec.sk.Value.Q.Cmp(q) == 0 {
		return dec.sk.Value, nil
	}
	return dec.sk.Value.WithModulus(q)
}

func finish(d *ring.Poly, t *big.Int) ([]*big.Int, *big.Int, error) {
	noise := d.MaxAbs()
	values := make([]*big.Int, len(d.Coeffs))
	for i, c := range d.Coeffs {
		values[i] = new(big.Int).Mod(c, t)
	}
	return values, noise, nil
}
