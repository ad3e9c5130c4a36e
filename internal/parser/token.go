package parser

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	errEmptyToken      = errors.New("empty token")
	errTooManySlashes  = errors.New("more than one '/'")
	errBadNumerator    = errors.New("numerator is not an integer")
	errBadDenominator  = errors.New("denominator is not an unsigned integer")
	errZeroDenominator = errors.New("zero denominator")
	errNotFinite       = errors.New("value is not finite")
)

// LiteralKind tags which encoding a token used.
type LiteralKind int

const (
	KindDecimal LiteralKind = iota
	KindRational
)

func (k LiteralKind) String() string {
	switch k {
	case KindDecimal:
		return "decimal"
	case KindRational:
		return "rational"
	default:
		return "unknown"
	}
}

// Literal is the tagged result of parsing one token: either a Decimal or a Rational.
type Literal interface {
	Kind() LiteralKind
	Float64() float64
}

// Decimal is a plain floating point literal such as "0.375" or "-1e-3".
type Decimal float64

func (Decimal) Kind() LiteralKind  { return KindDecimal }
func (d Decimal) Float64() float64 { return float64(d) }

// Rational is an exact p/q literal. Den is always positive.
type Rational struct {
	Num *big.Int
	Den *big.Int
}

func (Rational) Kind() LiteralKind { return KindRational }

// Float64 returns the float64 nearest to Num/Den.
func (r Rational) Float64() float64 {
	f, _ := new(big.Rat).SetFrac(r.Num, r.Den).Float64()
	return f
}

// ParseLiteral parses a single token. An integer pair "p/q" is tried first,
// then a plain decimal. Surrounding whitespace is ignored.
func ParseLiteral(token string) (Literal, error) {
	tok := strings.TrimSpace(token)
	if tok == "" {
		return nil, &ParseError{Token: token, Err: errEmptyToken}
	}

	if strings.Contains(tok, "/") {
		r, err := parseRational(tok)
		if err != nil {
			return nil, &ParseError{Token: token, Err: err}
		}
		return r, nil
	}

	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, &ParseError{Token: token, Err: err}
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, &ParseError{Token: token, Err: errNotFinite}
	}
	return Decimal(f), nil
}

// ParseToken turns "0.5" or "1/2" into a float64.
func ParseToken(token string) (float64, error) {
	lit, err := ParseLiteral(token)
	if err != nil {
		return 0, err
	}
	f := lit.Float64()
	if math.IsInf(f, 0) {
		// a rational can still overflow float64 on conversion
		return 0, &ParseError{Token: token, Err: errNotFinite}
	}
	return f, nil
}

// parseRational accepts an optionally signed integer numerator and an
// unsigned integer denominator.
func parseRational(tok string) (Rational, error) {
	parts := strings.Split(tok, "/")
	if len(parts) != 2 {
		return Rational{}, errTooManySlashes
	}
	numStr, denStr := parts[0], parts[1]

	unsigned := numStr
	if strings.HasPrefix(unsigned, "+") || strings.HasPrefix(unsigned, "-") {
		unsigned = unsigned[1:]
	}
	if !isDigits(unsigned) {
		return Rational{}, errBadNumerator
	}
	if !isDigits(denStr) {
		return Rational{}, errBadDenominator
	}

	num, ok := new(big.Int).SetString(numStr, 10)
	if !ok {
		return Rational{}, errBadNumerator
	}
	den, ok := new(big.Int).SetString(denStr, 10)
	if !ok {
		return Rational{}, errBadDenominator
	}
	if den.Sign() == 0 {
		return Rational{}, errZeroDenominator
	}
	return Rational{Num: num, Den: den}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
