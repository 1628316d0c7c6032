package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluator_Validate(t *testing.T) {
	t.Run("complete_formulas_are_kept", func(t *testing.T) {
		formulas := []Formula{
			tokens("1"),
			tokens("A1"),
			tokens("-", "1"),
			tokens("1", "+", "2", "*", "3"),
			tokens("(", "1", ")"),
			tokens("(", "(", "1", "+", "A2", ")", ")", "/", "4"),
			tokens("-", "(", "2", "+", "3", ")"),
			tokens("2", "*", "(", "-", "3", ")"),
			tokens("AB12", "-", "(", "C3", "*", "2", ")", "+", "7"),
		}

		for _, f := range formulas {
			t.Run(f.String(), func(t *testing.T) {
				e := NewEvaluator(fakeStore{})
				got := e.Validate(f)

				assert.Equal(t, f, got)
				assert.NoError(t, e.Err())
			})
		}
	})

	t.Run("empty", func(t *testing.T) {
		e := NewEvaluator(fakeStore{})
		got := e.Validate(Formula{})

		assert.Empty(t, got)
		assert.ErrorIs(t, e.Err(), ErrEmptyFormula)
	})

	t.Run("invalid_first_token_keeps_one_token", func(t *testing.T) {
		formulas := []Formula{
			tokens("*", "2"),
			tokens("+"),
			tokens("/", "(", "1", ")"),
			{Token{Kind: Invalid, Text: "SUM"}, LParen(), Num(1), RParen()},
		}

		for _, f := range formulas {
			t.Run(f.String(), func(t *testing.T) {
				e := NewEvaluator(fakeStore{})
				got := e.Validate(f)

				assert.Equal(t, f[:1], got)
				assert.ErrorIs(t, e.Err(), ErrInvalidOperator)
			})
		}
	})

	t.Run("negative_depth", func(t *testing.T) {
		cases := []struct {
			formula Formula
			want    Formula
		}{
			{tokens(")"), tokens(")")},
			{tokens("2", "+", "3", ")", "*", "4"), tokens("2", "+", "3")},
			{tokens("(", "1", ")", ")", "+", "2"), tokens("(", "1", ")")},
		}

		for _, tc := range cases {
			t.Run(tc.formula.String(), func(t *testing.T) {
				e := NewEvaluator(fakeStore{})
				got := e.Validate(tc.formula)

				assert.Equal(t, tc.want, got)
				assert.ErrorIs(t, e.Err(), ErrMissingParentheses)
			})
		}
	})

	t.Run("unclosed", func(t *testing.T) {
		e := NewEvaluator(fakeStore{})
		got := e.Validate(tokens("7", "*", "(", "1", "+", "2"))

		assert.Equal(t, tokens("7"), got)
		assert.ErrorIs(t, e.Err(), ErrMissingParentheses)
	})

	t.Run("incomplete", func(t *testing.T) {
		cases := []struct {
			formula Formula
			want    Formula
		}{
			{tokens("2", "+"), tokens("2")},
			{tokens("-"), tokens("-")},
			{tokens("1", "+", "2", "/"), tokens("1", "+", "2")},
			{tokens("(", "1", ")", "-"), tokens("(", "1", ")")},
		}

		for _, tc := range cases {
			t.Run(tc.formula.String(), func(t *testing.T) {
				e := NewEvaluator(fakeStore{})
				got := e.Validate(tc.formula)

				assert.Equal(t, tc.want, got)
				assert.ErrorIs(t, e.Err(), ErrIncompleteFormula)
			})
		}
	})

	t.Run("operand_after_operand", func(t *testing.T) {
		cases := []struct {
			formula Formula
			want    Formula
		}{
			{tokens("2", "3"), tokens("2")},
			{tokens("A1", "(", "1", ")"), tokens("A1")},
			{tokens("1", "+", "(", "2", ")", "3"), tokens("1", "+", "(", "2", ")")},
		}

		for _, tc := range cases {
			t.Run(tc.formula.String(), func(t *testing.T) {
				e := NewEvaluator(fakeStore{})
				got := e.Validate(tc.formula)

				assert.Equal(t, tc.want, got)
				assert.ErrorIs(t, e.Err(), ErrInvalidOperator)
			})
		}
	})

	t.Run("lowercase_label_is_not_a_reference", func(t *testing.T) {
		e := NewEvaluator(fakeStore{})
		got := e.Validate(Formula{Ref("a1"), Op("+"), Num(1)})

		assert.Len(t, got, 1)
		assert.ErrorIs(t, e.Err(), ErrInvalidOperator)
	})
}

func TestIsValidCellLabel(t *testing.T) {
	assert.True(t, IsValidCellLabel("A1"))
	assert.True(t, IsValidCellLabel("ZZ100"))
	assert.False(t, IsValidCellLabel("a1"))
	assert.False(t, IsValidCellLabel("1A"))
	assert.False(t, IsValidCellLabel("A"))
	assert.False(t, IsValidCellLabel(""))
}
