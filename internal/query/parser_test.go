package query

import (
	"errors"
	"strings"
	"testing"
)

// rpnString renders tokens for compact comparison: terms as text, operators
// by name.
func rpnString(toks []Token) string {
	parts := make([]string, 0, len(toks))
	for _, tk := range toks {
		if tk.Type == TokenTerm {
			parts = append(parts, tk.Text)
		} else {
			parts = append(parts, tk.Type.String())
		}
	}
	return strings.Join(parts, " ")
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cat", "cat"},
		{"cat dog", "cat dog"},
		{"CAT & Dog", "cat AND dog"},
		{"a && b || c", "a AND b OR c"},
		{"!a", "NOT a"},
		{"(a|b)", "( a OR b )"},
		{"  a\t b  ", "a b"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := rpnString(Tokenize(tt.in)); got != tt.want {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInsertImplicitAnd(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a b", "a AND b"},
		{"a b c", "a AND b AND c"},
		{"a (b)", "a AND ( b )"},
		{"(a) b", "( a ) AND b"},
		{"a !b", "a AND NOT b"},
		{"a & b", "a AND b"},
		{"!a b", "NOT a AND b"},
		{"(a)(b)", "( a ) AND ( b )"},
		{"!a", "NOT a"},
	}
	for _, tt := range tests {
		got := rpnString(InsertImplicitAnd(Tokenize(tt.in)))
		if got != tt.want {
			t.Errorf("implicit AND over %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToRPN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a & b", "a b AND"},
		{"a | b & c", "a b c AND OR"}, // AND binds tighter
		{"a & b | c", "a b AND c OR"},
		{"!a", "a NOT"},
		{"!a & b", "a NOT b AND"},
		{"!(a | b)", "a b OR NOT"},
		{"!!a", "a NOT NOT"},
		{"(a | b) & c", "a b OR c AND"},
		{"a b", "a b AND"},
	}
	for _, tt := range tests {
		rpn, err := ToRPN(InsertImplicitAnd(Tokenize(tt.in)))
		if err != nil {
			t.Errorf("ToRPN(%q) returned error: %v", tt.in, err)
			continue
		}
		if got := rpnString(rpn); got != tt.want {
			t.Errorf("ToRPN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToRPNUnbalanced(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"(a", ErrUnmatchedLParen},
		{"a)", ErrUnmatchedRParen},
		{"((a)", ErrUnmatchedLParen},
		{"(a))", ErrUnmatchedRParen},
	}
	for _, tt := range tests {
		_, err := ToRPN(InsertImplicitAnd(Tokenize(tt.in)))
		if !errors.Is(err, tt.want) {
			t.Errorf("ToRPN(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}
