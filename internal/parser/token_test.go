package parser

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken_Decimal(t *testing.T) {
	cases := []string{"0", "0.375", "-1.5", "1e-3", "2.5E+2", "  0.25\t", "+7", ".5"}
	for _, tc := range cases {
		t.Run(tc, func(t *testing.T) {
			want, err := strconv.ParseFloat(strings.TrimSpace(tc), 64)
			require.NoError(t, err)

			got, err := ParseToken(tc)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseToken_Rational(t *testing.T) {
	cases := []struct {
		p, q int64
	}{
		{1, 2}, {3, 4}, {3, 8}, {0, 5}, {-7, 3}, {1, 3}, {22, 7}, {100, 1},
	}
	for _, tc := range cases {
		tok := strconv.FormatInt(tc.p, 10) + "/" + strconv.FormatInt(tc.q, 10)
		t.Run(tok, func(t *testing.T) {
			got, err := ParseToken(tok)
			require.NoError(t, err)
			assert.InDelta(t, float64(tc.p)/float64(tc.q), got, 1e-15)
		})
	}
}

func TestParseToken_RationalIsExactBeforeConversion(t *testing.T) {
	// numerator and denominator overflow int64; only the ratio is representable
	got, err := ParseToken("300000000000000000000000000001/600000000000000000000000000002")
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)
}

func TestParseToken_Invalid(t *testing.T) {
	cases := []string{"", "   ", "abc", "1/", "/2", "1/2/3", "1/0", "a/2", "1/b", "1.5/2", "1/-2", "--1/2", "inf", "NaN", "1e400"}
	for _, tc := range cases {
		t.Run(tc, func(t *testing.T) {
			_, err := ParseToken(tc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse), "expected ErrParse, got %v", err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc, pe.Token)
			assert.Contains(t, err.Error(), strconv.Quote(tc))
		})
	}
}

func TestParseLiteral_Tags(t *testing.T) {
	lit, err := ParseLiteral("0.75")
	require.NoError(t, err)
	assert.Equal(t, KindDecimal, lit.Kind())
	assert.Equal(t, Decimal(0.75), lit)

	lit, err = ParseLiteral("-3/4")
	require.NoError(t, err)
	require.Equal(t, KindRational, lit.Kind())
	r, ok := lit.(Rational)
	require.True(t, ok)
	assert.Equal(t, 0, r.Num.Cmp(big.NewInt(-3)))
	assert.Equal(t, 0, r.Den.Cmp(big.NewInt(4)))
	assert.Equal(t, -0.75, r.Float64())
}

func TestLiteralKind_String(t *testing.T) {
	assert.Equal(t, "decimal", KindDecimal.String())
	assert.Equal(t, "rational", KindRational.String())
	assert.Equal(t, "unknown", LiteralKind(9).String())
}

func TestParseToken_FiniteResults(t *testing.T) {
	for _, tok := range []string{"1/3", "0.1", "123456789/1", "-0.0"} {
		got, err := ParseToken(tok)
		require.NoError(t, err)
		assert.False(t, math.IsInf(got, 0) || math.IsNaN(got), tok)
	}
}
