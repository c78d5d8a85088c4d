package query

import "strings"

// Source resolves a normalized term to its posting list. An unknown term
// yields nil, not an error.
type Source interface {
	PostingsFor(term string) []uint32
}

// Evaluate runs the RPN with a stack machine. TERM pushes the term's
// posting list, NOT pops one operand and pushes its complement against the
// universe, AND/OR pop two and push the merge. At the end the stack must
// hold exactly one set.
func Evaluate(src Source, universe []uint32, rpn []Token) ([]uint32, error) {
	var stack [][]uint32

	for _, tk := range rpn {
		switch tk.Type {
		case TokenTerm:
			stack = append(stack, src.PostingsFor(tk.Text))

		case TokenNot:
			if len(stack) < 1 {
				return nil, ErrMissingOperand
			}
			a := stack[len(stack)-1]
			stack[len(stack)-1] = Complement(universe, a)

		case TokenAnd, TokenOr:
			if len(stack) < 2 {
				return nil, ErrMissingOperand
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-1]
			if tk.Type == TokenAnd {
				stack[len(stack)-1] = Intersect(a, b)
			} else {
				stack[len(stack)-1] = Union(a, b)
			}

		default:
			return nil, ErrBadExpression
		}
	}

	if len(stack) != 1 {
		return nil, ErrBadExpression
	}
	return stack[0], nil
}

// Run processes one query line end to end. A line with no term at all
// yields an empty result without invoking the parser.
func Run(src Source, universe []uint32, line string) ([]uint32, error) {
	toks := InsertImplicitAnd(Tokenize(line))

	hasTerm := false
	for _, tk := range toks {
		if tk.Type == TokenTerm {
			hasTerm = true
			break
		}
	}
	if !hasTerm {
		return []uint32{}, nil
	}

	rpn, err := ToRPN(toks)
	if err != nil {
		return nil, err
	}
	return Evaluate(src, universe, rpn)
}

// CanonicalKey renders the parsed query in a form stable across surface
// spellings ("a b" and "a && b" share a key). It fails on the same inputs
// Run fails on; callers treat an error as uncacheable.
func CanonicalKey(line string) (string, error) {
	toks := InsertImplicitAnd(Tokenize(line))
	rpn, err := ToRPN(toks)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, tk := range rpn {
		if i > 0 {
			b.WriteByte(' ')
		}
		if tk.Type == TokenTerm {
			b.WriteString(tk.Text)
		} else {
			b.WriteString(tk.Type.String())
		}
	}
	return b.String(), nil
}
