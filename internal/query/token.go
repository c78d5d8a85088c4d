// Package query implements the boolean query language: tokenizer,
// implicit-AND insertion, shunting-yard conversion to RPN, and a stack
// machine evaluating the RPN with merge-based set algebra over postings.
//
// Grammar tokens: TERM, ! (NOT), & or && (AND), | or || (OR), parentheses.
// Precedence NOT > AND > OR; NOT is right-associative. Adjacent operands
// ("a b", "a (b)") get an implicit AND.
package query

type TokenType int

const (
	TokenTerm TokenType = iota
	TokenAnd
	TokenOr
	TokenNot
	TokenLParen
	TokenRParen
)

func (t TokenType) String() string {
	switch t {
	case TokenTerm:
		return "TERM"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	}
	return "?"
}

// Token is one element of a query line. Text is set only for terms, already
// lower-cased. No token outlives the query it came from.
type Token struct {
	Type TokenType
	Text string
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	}
	return false
}

func isTermChar(c byte) bool {
	if isSpace(c) {
		return false
	}
	switch c {
	case '&', '|', '!', '(', ')':
		return false
	}
	return true
}

// Tokenize scans one query line left to right. "&&" and "||" collapse to
// single operators; any run of non-space non-operator bytes is a term.
func Tokenize(line string) []Token {
	var toks []Token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			toks = append(toks, Token{Type: TokenLParen})
			i++
		case c == ')':
			toks = append(toks, Token{Type: TokenRParen})
			i++
		case c == '!':
			toks = append(toks, Token{Type: TokenNot})
			i++
		case c == '&':
			if i+1 < len(line) && line[i+1] == '&' {
				i += 2
			} else {
				i++
			}
			toks = append(toks, Token{Type: TokenAnd})
		case c == '|':
			if i+1 < len(line) && line[i+1] == '|' {
				i += 2
			} else {
				i++
			}
			toks = append(toks, Token{Type: TokenOr})
		default:
			start := i
			for i < len(line) && isTermChar(line[i]) {
				i++
			}
			toks = append(toks, Token{Type: TokenTerm, Text: toLowerASCII(line[start:i])})
		}
	}
	return toks
}

// InsertImplicitAnd places an AND between an operand-like token (a term or
// a closing paren) and a following term, opening paren, or NOT, so that
// "a b" means "a AND b".
func InsertImplicitAnd(in []Token) []Token {
	out := make([]Token, 0, 2*len(in))
	for _, cur := range in {
		if len(out) > 0 {
			prev := out[len(out)-1].Type
			operandLike := prev == TokenTerm || prev == TokenRParen
			startsOperand := cur.Type == TokenTerm || cur.Type == TokenLParen || cur.Type == TokenNot
			if operandLike && startsOperand {
				out = append(out, Token{Type: TokenAnd})
			}
		}
		out = append(out, cur)
	}
	return out
}

func toLowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}
