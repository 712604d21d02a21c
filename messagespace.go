package fpe

import (
	"fmt"
	"math/big"
)

// MessageSpace is an immutable finite domain together with a bijection to
// and from [0, Order()). Concrete integer message spaces are the only
// variant this core provides; the abstraction exists so a future
// non-integer domain (a date range, an alphabet string of fixed length) can
// plug into the same cipher by implementing rank/unrank, per spec.md §9's
// "abstract class with generic element type" note.
type MessageSpace[T any] interface {
	// Order returns the number of elements in the domain. Always ≥ 1.
	Order() *big.Int
	// MaxValue returns Order() - 1.
	MaxValue() *big.Int
	// Rank maps a domain element to its index in [0, Order()), returning
	// ErrOutsideMessageSpace if value is not a member of the domain.
	Rank(value T) (*big.Int, error)
	// Unrank maps an index in [0, Order()) back to its domain element,
	// returning ErrOutsideMessageSpace if n is out of range.
	Unrank(n *big.Int) (T, error)
}

// IntegerRangeMessageSpace is a MessageSpace over the contiguous integers
// [min, max], per spec.md §3/§4.1.
type IntegerRangeMessageSpace struct {
	min, max *big.Int
	order    *big.Int
}

var _ MessageSpace[*big.Int] = (*IntegerRangeMessageSpace)(nil)

// NewIntegerRangeMessageSpace builds the message space [min, max]. It
// requires min <= max.
func NewIntegerRangeMessageSpace(min, max *big.Int) (*IntegerRangeMessageSpace, error) {
	if min == nil || max == nil {
		return nil, fmt.Errorf("%w: min and max must not be nil", ErrIllegalArgument)
	}
	if min.Cmp(max) > 0 {
		return nil, fmt.Errorf("%w: min (%s) must be <= max (%s)", ErrIllegalArgument, min, max)
	}
	order := new(big.Int).Sub(max, min)
	order.Add(order, big.NewInt(1))
	return &IntegerRangeMessageSpace{
		min:   new(big.Int).Set(min),
		max:   new(big.Int).Set(max),
		order: order,
	}, nil
}

// NewIntegerMessageSpace builds the zero-based message space [0, max],
// per spec.md §3/§4.1. It requires max >= 0.
func NewIntegerMessageSpace(max *big.Int) (*IntegerRangeMessageSpace, error) {
	if max == nil {
		return nil, fmt.Errorf("%w: max must not be nil", ErrIllegalArgument)
	}
	if max.Sign() < 0 {
		return nil, fmt.Errorf("%w: max (%s) must be >= 0", ErrIllegalArgument, max)
	}
	return NewIntegerRangeMessageSpace(big.NewInt(0), max)
}

// Order returns max - min + 1.
func (s *IntegerRangeMessageSpace) Order() *big.Int {
	return new(big.Int).Set(s.order)
}

// MaxValue returns Order() - 1, i.e. max - min.
func (s *IntegerRangeMessageSpace) MaxValue() *big.Int {
	return new(big.Int).Sub(s.order, big.NewInt(1))
}

// Rank returns value - min, failing if value is outside [min, max].
func (s *IntegerRangeMessageSpace) Rank(value *big.Int) (*big.Int, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: value must not be nil", ErrIllegalArgument)
	}
	if value.Cmp(s.min) < 0 || value.Cmp(s.max) > 0 {
		return nil, fmt.Errorf("%w: %s is not in [%s, %s]", ErrOutsideMessageSpace, value, s.min, s.max)
	}
	return new(big.Int).Sub(value, s.min), nil
}

// Unrank returns min + n, failing if n is outside [0, Order()).
func (s *IntegerRangeMessageSpace) Unrank(n *big.Int) (*big.Int, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: n must not be nil", ErrIllegalArgument)
	}
	if n.Sign() < 0 || n.Cmp(s.order) >= 0 {
		return nil, fmt.Errorf("%w: rank %s is not in [0, %s)", ErrOutsideMessageSpace, n, s.order)
	}
	return new(big.Int).Add(s.min, n), nil
}

// bitLength returns the minimum number of bits needed to represent order,
// per spec.md §4.3.1: bitLength(2^k) = k+1, bitLength(2^k + c) = k+1 for
// 0 < c < 2^k. This is exactly math/big's BitLen.
func bitLength(order *big.Int) int {
	return order.BitLen()
}
