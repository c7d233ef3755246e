// Package morton interleaves tile columns and rows into Z-order codes and quadkeys.
package morton

import (
	"fmt"
	"math"
)

type Z = uint

var (
	masks = [...]uint{
		0b0101010101010101010101010101010101010101010101010101010101010101,
		0b0011001100110011001100110011001100110011001100110011001100110011,
		0b0000111100001111000011110000111100001111000011110000111100001111,
		0b0000000011111111000000001111111100000000111111110000000011111111,
		0b0000000000000000111111111111111100000000000000001111111111111111,
		0b0000000000000000000000000000000011111111111111111111111111111111,
	}
	powersOfTwo = [...]uint{0, 1, 2, 4, 8, 16}
)

// ToZ puts the bits of x on the even and the bits of y on the odd positions.
// ok is false if x or y doesn't fit in 32 bits.
func ToZ(x, y uint) (z Z, ok bool) {
	ok = x <= math.MaxUint32 && y <= math.MaxUint32
	for i := 4; i >= 0; i-- {
		x = (x | (x << powersOfTwo[i+1])) & masks[i]
		y = (y | (y << powersOfTwo[i+1])) & masks[i]
	}
	z = x | (y << 1)
	return z, ok
}

func MustToZ(x, y uint) Z {
	z, ok := ToZ(x, y)
	if !ok {
		panic(fmt.Errorf(`cannot make Z out of %v and %v`, x, y))
	}
	return z
}

func FromZ(z Z) (x, y uint) {
	x = z
	y = z >> 1
	for i := 0; i <= 5; i++ {
		x = (x | (x >> powersOfTwo[i])) & masks[i]
		y = (y | (y >> powersOfTwo[i])) & masks[i]
	}
	return x, y
}

// QuadKey returns the Bing maps style quadkey of tile x, y at level.
// Each digit is a Z-order pair: 0 top left, 1 top right, 2 bottom left, 3 bottom right.
// ok is false if x or y is outside the level.
// See https://learn.microsoft.com/en-us/bingmaps/articles/bing-maps-tile-system
func QuadKey(x, y, level uint) (string, bool) {
	if level > 32 || x >= 1<<level || y >= 1<<level {
		return "", false
	}
	z := MustToZ(x, y)
	key := make([]byte, level)
	for i := uint(0); i < level; i++ {
		key[level-1-i] = '0' + byte((z>>(2*i))&0b11)
	}
	return string(key), true
}

// FromQuadKey is the inverse of QuadKey
func FromQuadKey(key string) (x, y, level uint, err error) {
	level = uint(len(key))
	if level > 32 {
		return 0, 0, 0, fmt.Errorf(`quadkey "%v" is too long`, key)
	}
	var z Z
	for _, c := range key {
		if c < '0' || c > '3' {
			return 0, 0, 0, fmt.Errorf(`invalid quadkey digit %q in "%v"`, c, key)
		}
		z = z<<2 | Z(c-'0')
	}
	x, y = FromZ(z)
	return x, y, level, nil
}
