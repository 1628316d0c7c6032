package calc

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags what a token position currently holds.
type Kind uint8

const (
	Number Kind = iota
	CellReference
	Operator
	LeftParen
	RightParen
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case CellReference:
		return "cell"
	case Operator:
		return "operator"
	case LeftParen:
		return "lparen"
	case RightParen:
		return "rparen"
	default:
		return "invalid"
	}
}

// Token is one element of a formula. Text keeps the surface form, Value is only
// meaningful for Number tokens.
type Token struct {
	Kind  Kind
	Text  string
	Value float64
}

// Formula is an ordered token sequence as typed by the user.
type Formula []Token

func Num(v float64) Token {
	return Token{Kind: Number, Text: formatNumber(v), Value: v}
}

func Ref(label string) Token {
	return Token{Kind: CellReference, Text: label}
}

// Op builds an operator token; sym is one of + - * /.
func Op(sym string) Token {
	return Token{Kind: Operator, Text: sym}
}

func LParen() Token {
	return Token{Kind: LeftParen, Text: "("}
}

func RParen() Token {
	return Token{Kind: RightParen, Text: ")"}
}

func (t Token) is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// number coerces the token like a numeric cast of its text would: only numbers
// survive, everything else turns into NaN.
func (t Token) number() float64 {
	if t.Kind == Number {
		return t.Value
	}
	return math.NaN()
}

// numeric reports whether the token holds a usable operand. Infinity counts.
func (t Token) numeric() bool {
	return t.Kind == Number && !math.IsNaN(t.Value)
}

func (t Token) String() string {
	if t.Kind == Number {
		return formatNumber(t.Value)
	}
	return t.Text
}

func (f Formula) String() string {
	parts := make([]string, len(f))
	for i, t := range f {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Clone returns a copy the evaluator is free to rewrite.
func (f Formula) Clone() Formula {
	out := make(Formula, len(f))
	copy(out, f)
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
