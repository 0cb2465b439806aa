// Package sizing defines the T-shirt size scale and its hour multipliers.
package sizing

import (
	"fmt"
	"strings"
)

// Size is a T-shirt size on the XS..XL scale. The zero value is invalid.
type Size string

// Recognized sizes, in ascending order.
const (
	XS Size = "XS"
	S  Size = "S"
	M  Size = "M"
	L  Size = "L"
	XL Size = "XL"
)

// Multipliers are Fibonacci-derived (1,2,5,8,13 over the Medium baseline of
// 5) and fixed: the scale is part of the estimation contract, not config.
const (
	multiplierXS = 0.2
	multiplierS  = 0.4
	multiplierM  = 1.0
	multiplierL  = 1.6
	multiplierXL = 2.6
)

// All returns the recognized sizes in ascending order.
func All() []Size {
	return []Size{XS, S, M, L, XL}
}

// Parse normalizes a size token. Input is case-insensitive; the returned
// Size is always the canonical uppercase form. Unknown tokens return an
// error wrapping ErrUnknownSize; they are never coerced to a default.
func Parse(token string) (Size, error) {
	switch Size(strings.ToUpper(strings.TrimSpace(token))) {
	case XS:
		return XS, nil
	case S:
		return S, nil
	case M:
		return M, nil
	case L:
		return L, nil
	case XL:
		return XL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSize, token)
	}
}

// Multiplier returns the hour multiplier applied to the Medium baseline.
// Only valid for sizes produced by Parse or the package constants.
func (s Size) Multiplier() float64 {
	switch s {
	case XS:
		return multiplierXS
	case S:
		return multiplierS
	case M:
		return multiplierM
	case L:
		return multiplierL
	case XL:
		return multiplierXL
	default:
		return 0
	}
}
