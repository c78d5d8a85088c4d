package query

import "testing"

func u(vals ...uint32) []uint32 { return vals }

// equalSets treats nil and the empty slice as the same set.
func equalSets(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b []uint32
		want []uint32
	}{
		{"disjoint", u(1, 3, 5), u(2, 4, 6), u()},
		{"overlap", u(1, 2, 3, 7), u(2, 3, 9), u(2, 3)},
		{"identical", u(4, 5, 6), u(4, 5, 6), u(4, 5, 6)},
		{"empty left", u(), u(1, 2), u()},
		{"empty right", u(1, 2), u(), u()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersect(tt.a, tt.b); !equalSets(got, tt.want) {
				t.Errorf("Intersect(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if rev := Intersect(tt.b, tt.a); !equalSets(rev, tt.want) {
				t.Errorf("Intersect(%v, %v) = %v, want %v", tt.b, tt.a, rev, tt.want)
			}
		})
	}
}

func TestUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b []uint32
		want []uint32
	}{
		{"disjoint", u(1, 3), u(2, 4), u(1, 2, 3, 4)},
		{"overlap", u(1, 2, 3), u(2, 3, 4), u(1, 2, 3, 4)},
		{"identical", u(7, 8), u(7, 8), u(7, 8)},
		{"empty left", u(), u(1), u(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Union(tt.a, tt.b); !equalSets(got, tt.want) {
				t.Errorf("Union(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if rev := Union(tt.b, tt.a); !equalSets(rev, tt.want) {
				t.Errorf("Union(%v, %v) = %v, want %v", tt.b, tt.a, rev, tt.want)
			}
		})
	}
}

func TestComplement(t *testing.T) {
	universe := u(0, 1, 2, 3, 4)
	tests := []struct {
		name string
		a    []uint32
		want []uint32
	}{
		{"middle", u(1, 3), u(0, 2, 4)},
		{"all", universe, u()},
		{"none", u(), u(0, 1, 2, 3, 4)},
		{"outside universe ignored", u(7, 9), u(0, 1, 2, 3, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Complement(universe, tt.a); !equalSets(got, tt.want) {
				t.Errorf("Complement(U, %v) = %v, want %v", tt.a, got, tt.want)
			}
		})
	}
}

func TestAlgebraLaws(t *testing.T) {
	universe := u(0, 1, 2, 3, 4, 5, 6, 7)
	a := u(1, 2, 5, 7)

	if got := Intersect(a, a); !equalSets(got, a) {
		t.Errorf("A AND A = %v, want %v", got, a)
	}
	if got := Union(a, a); !equalSets(got, a) {
		t.Errorf("A OR A = %v, want %v", got, a)
	}
	if got := Complement(universe, Complement(universe, a)); !equalSets(got, a) {
		t.Errorf("NOT NOT A = %v, want %v", got, a)
	}
	if got := Intersect(a, Complement(universe, a)); len(got) != 0 {
		t.Errorf("A AND NOT A = %v, want empty", got)
	}
	if got := Union(a, Complement(universe, a)); !equalSets(got, universe) {
		t.Errorf("A OR NOT A = %v, want universe", got)
	}
}
