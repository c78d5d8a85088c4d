package query

import "errors"

// Parse errors are per-query and recoverable: the caller reports them and
// moves on to the next query line.
var (
	ErrUnmatchedLParen = errors.New("unmatched '('")
	ErrUnmatchedRParen = errors.New("unmatched ')'")
	ErrMissingOperand  = errors.New("operator missing operand")
	ErrBadExpression   = errors.New("bad expression")
)

func precedence(t TokenType) int {
	switch t {
	case TokenNot:
		return 3
	case TokenAnd:
		return 2
	case TokenOr:
		return 1
	}
	return 0
}

func rightAssociative(t TokenType) bool {
	return t == TokenNot
}

// ToRPN converts an infix token stream to reverse-Polish order with the
// shunting-yard algorithm. Parentheses must balance.
func ToRPN(toks []Token) ([]Token, error) {
	rpn := make([]Token, 0, len(toks))
	var opStack []Token
	depth := 0

	for _, tk := range toks {
		switch tk.Type {
		case TokenTerm:
			rpn = append(rpn, tk)

		case TokenLParen:
			opStack = append(opStack, tk)
			depth++

		case TokenRParen:
			depth--
			if depth < 0 {
				return nil, ErrUnmatchedRParen
			}
			for len(opStack) > 0 && opStack[len(opStack)-1].Type != TokenLParen {
				rpn = append(rpn, opStack[len(opStack)-1])
				opStack = opStack[:len(opStack)-1]
			}
			if len(opStack) == 0 {
				return nil, ErrUnmatchedRParen
			}
			opStack = opStack[:len(opStack)-1]

		case TokenNot, TokenAnd, TokenOr:
			p := precedence(tk.Type)
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1].Type
				if top == TokenLParen {
					break
				}
				p2 := precedence(top)
				if p2 > p || (p2 == p && !rightAssociative(tk.Type)) {
					rpn = append(rpn, opStack[len(opStack)-1])
					opStack = opStack[:len(opStack)-1]
					continue
				}
				break
			}
			opStack = append(opStack, tk)
		}
	}

	if depth != 0 {
		return nil, ErrUnmatchedLParen
	}
	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		if top.Type == TokenLParen {
			return nil, ErrUnmatchedLParen
		}
		rpn = append(rpn, top)
		opStack = opStack[:len(opStack)-1]
	}
	return rpn, nil
}
