// Command bgvdemo walks through a small homomorphic computation end to
// end: build parameters, generate keys, encrypt two vectors, add and
// multiply them, decrypt the results, and call AutoSwitch on A (which only
// switches once A's noise exceeds the switching threshold, so for a fresh
// ciphertext it reports false). It is
// a library smoke test in the shape of lattigo's examples/ tree, not a
// replacement for the (out of scope) desktop UI.
package main

import (
	"fmt"
	"math/big"

	"github.com/atraykov02/bgvision/engine"
	"github.com/atraykov02/bgvision/params"
	"github.com/atraykov02/bgvision/ring"
)

func ints(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func main() {
	p, err := params.NewParametersFromLiteral(params.ParametersLiteral{
		Lambda: 128,
		T:      7,
		N:      16,
		B:      5,
	})
	if err != nil {
		panic(err)
	}

	prng, err := ring.NewKeyedPRNG(nil) // crypto/rand-seeded
	if err != nil {
		panic(err)
	}

	e, err := engine.New(p, prng)
	if err != nil {
		panic(err)
	}

	a := ints(1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 6, 0, 1, 2)
	b := ints(1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)

	if err := e.Encrypt("A", a); err != nil {
		panic(err)
	}
	if err := e.Encrypt("B", b); err != nil {
		panic(err)
	}

	sum, err := e.Perform("A", "+", "B")
	if err != nil {
		panic(err)
	}
	sumValues, sumNoise, err := e.Decrypt(sum)
	if err != nil {
		panic(err)
	}
	fmt.Printf("A+B = %v (noise %s)\n", sumValues, sumNoise)

	product, err := e.Perform("A", "*", "B")
	if err != nil {
		panic(err)
	}
	productValues, productNoise, err := e.Decrypt(product)
	if err != nil {
		panic(err)
	}
	fmt.Printf("A*B = %v (noise %s)\n", productValues, productNoise)

	expected, err := e.ExpectedValue(product)
	if err != nil {
		panic(err)
	}
	fmt.Printf("expected A*B = %v\n", expected)

	switched, err := e.AutoSwitch("A")
	if err != nil {
		panic(err)
	}
	fmt.Printf("switched A down a modulus level: %v\n", switched)

	report, err := e.MeasureNoise("A")
	if err != nil {
		panic(err)
	}
	fmt.Printf("A noise: %s/%s (%.2f%%, mean %.1f, stddev %.1f)\n",
		report.Noise, report.MaxNoise, report.Percentage, report.Mean, report.StdDev)
}
