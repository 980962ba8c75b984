// Package engine implements the operation engine of spec §4.7 and the
// noise policy of spec §4.8: a constructor-built value type (never a
// package-level singleton, per spec §9) that owns a key pair and the
// named ciphertexts and operation history built on top of it.
package engine

import (
	"fmt"
	"math/big"

	"github.com/atraykov02/bgvision/oracle"
	"github.com/atraykov02/bgvision/params"
	"github.com/atraykov02/bgvision/relin"
	"github.com/atraykov02/bgvision/ring"
	"github.com/atraykov02/bgvision/rlwe"
)

// Engine holds one key pair and the ciphertext/history state built on
// top of it. It is not safe for concurrent use; per spec §5, callers
// serving multiple goroutines must wrap it with their own mutex.
type Engine struct {
	params params.Parameters
	prng   ring.PRNG

	kg *rlwe.KeyGenerator
	sk *rlwe.SecretKey
	pk *rlwe.PublicKey

	encrypted map[string]*rlwe.Ciphertext
	originals map[string][]*big.Int
	history   []HistoryEntry

	rlkBigQ *relin.Key
	rlkQ    *relin.Key

	counter int
}

// New builds an Engine over p, drawing a fresh key pair from prng. This
// is the library's generate_keys(n, t, b, Q) entry point of spec §6,
// folded into construction since Parameters already carries n, t, b and Q.
func New(p params.Parameters, prng ring.PRNG) (*Engine, error) {
	kg := rlwe.NewKeyGenerator(p, prng)
	sk, err := kg.GenSecretKey()
	if err != nil {
		return nil, wrapError(KindInvalidParameters, "secret key generation failed", err)
	}
	pk, err := kg.GenPublicKey(sk)
	if err != nil {
		return nil, wrapError(KindInvalidParameters, "public key generation failed", err)
	}
	return &Engine{
		params:    p,
		prng:      prng,
		kg:        kg,
		sk:        sk,
		pk:        pk,
		encrypted: make(map[string]*rlwe.Ciphertext),
		originals: make(map[string][]*big.Int),
	}, nil
}

func (e *Engine) decryptor() *rlwe.Decryptor {
	return rlwe.NewDecryptor(e.params, e.sk)
}

// Encrypt validates values and stores a fresh ciphertext under name,
// overwriting any previous value stored there.
func (e *Engine) Encrypt(name string, values []*big.Int) error {
	pt, err := rlwe.NewPlaintext(e.params, values)
	if err != nil {
		return wrapError(KindInvalidParameters, "invalid plaintext", err)
	}
	enc := rlwe.NewEncryptor(e.params, e.pk, e.prng)
	ct, err := enc.Encrypt(pt)
	if err != nil {
		return wrapError(KindInvalidParameters, "encryption failed", err)
	}

	stored := make([]*big.Int, len(values))
	for i, v := range values {
		stored[i] = new(big.Int).Set(v)
	}
	e.encrypted[name] = ct
	e.originals[name] = stored
	return nil
}

// Decrypt returns the plaintext vector and noise scalar for name.
func (e *Engine) Decrypt(name string) ([]*big.Int, *big.Int, error) {
	ct, ok := e.encrypted[name]
	if !ok {
		return nil, nil, newError(KindUnknownName, "unknown ciphertext "+name)
	}
	values, noise, err := e.decryptor().Decrypt(ct)
	if err != nil {
		return nil, nil, wrapError(KindDecryptFailure, "decryption failed", err)
	}
	return values, noise, nil
}

// ExpectedValue computes the noise-free reference plaintext for name via
// the oracle package, for correctness verification against Decrypt.
func (e *Engine) ExpectedValue(name string) ([]*big.Int, error) {
	return oracle.Evaluate(name, asRecords(e.history), e.originals, e.params.T(), e.params.N())
}

func (e *Engine) nextName() string {
	e.counter++
	return fmt.Sprintf("R%d", e.counter)
}

// relinKeyFor returns the cached relinearization key for modulus,
// generating it on demand. Per spec §9, at most two key sets are ever
// held: one for Q, one for q.
func (e *Engine) relinKeyFor(modulus *big.Int) (*relin.Key, error) {
	bigQ := e.params.BigQ()
	q := e.params.Q()
	switch {
	case modulus.Cmp(bigQ) == 0:
		if e.rlkBigQ == nil {
			rlk, err := relin.GenRelinearizationKey(e.kg, e.sk, bigQ, e.params.B())
			if err != nil {
				return nil, err
			}
			e.rlkBigQ = rlk
		}
		return e.rlkBigQ, nil
	case modulus.Cmp(q) == 0:
		if e.rlkQ == nil {
			rlk, err := relin.GenRelinearizationKey(e.kg, e.sk, q, e.params.B())
			if err != nil {
				return nil, err
			}
			e.rlkQ = rlk
		}
		return e.rlkQ, nil
	default:
		return nil, fmt.Errorf("engine: no relinearization key available for modulus %s", modulus)
	}
}

// Reset clears all stored ciphertexts, originals and history, and
// invalidates the cached relinearization keys. The key pair itself is
// left intact: a fresh session of bookkeeping, not a key rotation.
func (e *Engine) Reset() {
	e.encrypted = make(map[string]*rlwe.Ciphertext)
	e.originals = make(map[string][]*big.Int)
	e.history = nil
	e.rlkBigQ = nil
	e.rlkQ = nil
	e.counter = 0
}
