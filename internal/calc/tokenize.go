package calc

import (
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// Tokenize splits typed text into formula tokens; a leading "=" is optional.
// Half-typed input is fine ("2*(" gives three tokens) and anything outside the
// supported grammar comes back as an Invalid token so the validator can cut it.
func Tokenize(text string) Formula {
	text = strings.TrimPrefix(strings.TrimSpace(text), "=")
	if strings.TrimSpace(text) == "" {
		return Formula{}
	}

	parser := efp.ExcelParser()
	parsed := parser.Parse(text)

	f := make(Formula, 0, len(parsed))
	for _, t := range parsed {
		switch t.TType {
		case efp.TokenTypeWhitespace:
			continue
		case efp.TokenTypeOperand:
			f = append(f, operand(t))
		case efp.TokenTypeOperatorInfix, efp.TokenTypeOperatorPrefix:
			if t.TSubType == efp.TokenSubTypeIntersection {
				// "2 3" must reach the validator as two adjacent operands
				continue
			}
			switch t.TValue {
			case "+", "-", "*", "/":
				f = append(f, Op(t.TValue))
			default:
				f = append(f, Token{Kind: Invalid, Text: t.TValue})
			}
		case efp.TokenTypeSubexpression, efp.TokenTypeFunction:
			// efp reports a ")" without a matching "(" as a function stop
			switch {
			case t.TSubType == efp.TokenSubTypeStop:
				f = append(f, RParen())
			case t.TType == efp.TokenTypeFunction:
				f = append(f, Token{Kind: Invalid, Text: t.TValue}, LParen())
			default:
				f = append(f, LParen())
			}
		default:
			f = append(f, Token{Kind: Invalid, Text: t.TValue})
		}
	}
	return f
}

func operand(t efp.Token) Token {
	// ParseFloat also takes "inf" and "nan", which are labels here
	if s := t.TValue; s != "" && (s[0] == '.' || (s[0] >= '0' && s[0] <= '9')) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return Token{Kind: Number, Text: s, Value: v}
		}
	}
	if t.TSubType == efp.TokenSubTypeRange {
		return Ref(strings.ToUpper(strings.ReplaceAll(t.TValue, "$", "")))
	}
	return Token{Kind: Invalid, Text: t.TValue}
}
