package calc

import "slices"

// buffer is the token sequence a reduction pass rewrites in place.
type buffer []Token

// at returns the token at i, or an invalid token when i is out of range, which
// coerces to NaN like any other non-number.
func (b buffer) at(i int) Token {
	if i < 0 || i >= len(b) {
		return Token{Kind: Invalid}
	}
	return b[i]
}

// replace swaps n tokens starting at start for t. A negative start counts back
// from the end and spans running past the end are cut short, so an operator at
// either edge still collapses into a single token.
func (b buffer) replace(start, n int, t ...Token) buffer {
	if start < 0 {
		start = max(start+len(b), 0)
	}
	start = min(start, len(b))
	n = max(min(n, len(b)-start), 0)
	return slices.Replace(b, start, start+n, t...)
}
