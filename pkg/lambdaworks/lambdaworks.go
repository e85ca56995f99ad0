// Package lambdaworks provides the Felt type, the Cairo prime field
// element used throughout the VM core.
package lambdaworks

import (
	"errors"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

// Felt is an element of F_p, p = 2^251 + 17*2^192 + 1 (the Cairo field).
// It wraps gnark-crypto's stark-curve field element, which implements
// the same prime in Montgomery form.
type Felt struct {
	inner fp.Element
}

// FeltFromUint64 returns the Felt representing the given non-negative integer.
func FeltFromUint64(value uint64) Felt {
	var e fp.Element
	e.SetUint64(value)
	return Felt{inner: e}
}

// FeltFromHex parses a hex string (with or without "0x" prefix) into a Felt.
func FeltFromHex(value string) Felt {
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
		value = "0x" + value
	}
	var e fp.Element
	e.SetString(value)
	return Felt{inner: e}
}

// FeltFromDecString parses a base-10 string into a Felt.
func FeltFromDecString(value string) Felt {
	asBig, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return FeltZero()
	}
	return FeltFromBigInt(asBig)
}

// FeltFromBigInt reduces an arbitrary big.Int modulo p.
func FeltFromBigInt(value *big.Int) Felt {
	var e fp.Element
	e.SetBigInt(value)
	return Felt{inner: e}
}

// ToU64 returns the Felt's canonical representative as a uint64, failing
// if the value does not fit (mirrors the teacher's ToU64, which checked
// the upper limbs were zero).
func (f Felt) ToU64() (uint64, error) {
	var asBig big.Int
	f.inner.BigInt(&asBig)
	if !asBig.IsUint64() {
		return 0, errors.New("cannot convert felt to u64")
	}
	return asBig.Uint64(), nil
}

// ToBigInt returns the Felt's canonical representative in [0, p).
func (f Felt) ToBigInt() *big.Int {
	var asBig big.Int
	f.inner.BigInt(&asBig)
	return &asBig
}

// ToLeBytes returns the canonical representative in little-endian byte order.
func (f Felt) ToLeBytes() *[32]byte {
	be := f.inner.Bytes()
	var le [32]byte
	for i, b := range be {
		le[31-i] = b
	}
	return &le
}

// ToBeBytes returns the canonical representative in big-endian byte order.
func (f Felt) ToBeBytes() *[32]byte {
	be := f.inner.Bytes()
	return &be
}

// FeltFromLeBytes builds a Felt from a little-endian byte representation.
func FeltFromLeBytes(bytes *[32]byte) Felt {
	var be [32]byte
	for i, b := range bytes {
		be[31-i] = b
	}
	var e fp.Element
	e.SetBytes(be[:])
	return Felt{inner: e}
}

// FeltFromBeBytes builds a Felt from a big-endian byte representation.
func FeltFromBeBytes(bytes *[32]byte) Felt {
	var e fp.Element
	e.SetBytes(bytes[:])
	return Felt{inner: e}
}

// FeltZero returns the additive identity.
func FeltZero() Felt {
	return Felt{}
}

// FeltOne returns the multiplicative identity.
func FeltOne() Felt {
	var e fp.Element
	e.SetOne()
	return Felt{inner: e}
}

// IsZero reports whether f is the additive identity.
func (f Felt) IsZero() bool {
	return f.inner.IsZero()
}

// Equal reports whether the two Felts have the same canonical representative.
func (f Felt) Equal(other Felt) bool {
	return f.inner.Equal(&other.inner)
}

// Add returns a + b.
func (a Felt) Add(b Felt) Felt {
	var result fp.Element
	result.Add(&a.inner, &b.inner)
	return Felt{inner: result}
}

// Sub returns a - b.
func (a Felt) Sub(b Felt) Felt {
	var result fp.Element
	result.Sub(&a.inner, &b.inner)
	return Felt{inner: result}
}

// Mul returns a * b.
func (a Felt) Mul(b Felt) Felt {
	var result fp.Element
	result.Mul(&a.inner, &b.inner)
	return Felt{inner: result}
}

// Neg returns -a.
func (a Felt) Neg() Felt {
	var result fp.Element
	result.Neg(&a.inner)
	return Felt{inner: result}
}

// Div returns a / b. A zero b is not checked: the backend's inverse of
// zero is zero, so the result is zero rather than an error or a panic.
// Callers (the deduction paths) check IsZero first.
func (a Felt) Div(b Felt) Felt {
	var result fp.Element
	result.Div(&a.inner, &b.inner)
	return Felt{inner: result}
}

// And returns the bitwise AND of the canonical representatives of a and b.
// Used only by the bitwise builtin.
func (a Felt) And(b Felt) Felt {
	return FeltFromBigInt(new(big.Int).And(a.ToBigInt(), b.ToBigInt()))
}

// Xor returns the bitwise XOR of the canonical representatives of a and b.
func (a Felt) Xor(b Felt) Felt {
	return FeltFromBigInt(new(big.Int).Xor(a.ToBigInt(), b.ToBigInt()))
}

// Or returns the bitwise OR of the canonical representatives of a and b.
func (a Felt) Or(b Felt) Felt {
	return FeltFromBigInt(new(big.Int).Or(a.ToBigInt(), b.ToBigInt()))
}

// String renders the canonical representative in decimal.
func (f Felt) String() string {
	return f.inner.Text(10)
}
