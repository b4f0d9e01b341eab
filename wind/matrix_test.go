package wind

import "testing"

const eps = 1e-9

func matDifferent(a, b Mat3) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if a[i][j]-b[i][j] > eps || b[i][j]-a[i][j] > eps {
				return true
			}
		}
	}
	return false
}

func TestMatMulIdentity(t *testing.T) {
	a := Mat3{{0, -6, -4}, {2, -8, -4}, {-6, 8, 2}}
	if matDifferent(a.Mul(Identity3()), a) || matDifferent(Identity3().Mul(a), a) {
		t.Error("3D matrix doesn't multiply by identity correctly")
	}
}

func TestMatMul(t *testing.T) {
	a := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	b := Mat3{{9, 8, 7}, {6, 5, 4}, {3, 2, 1}}
	want := Mat3{{30, 24, 18}, {84, 69, 54}, {138, 114, 90}}
	if matDifferent(a.Mul(b), want) {
		t.Errorf("product was %v, should be %v", a.Mul(b), want)
	}
}

func TestMatTranspose(t *testing.T) {
	a := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	if matDifferent(a.Transpose().Transpose(), a) {
		t.Error("double transpose doesn't return the original matrix")
	}
	if a.Transpose()[0][2] != 7 {
		t.Error("transpose doesn't swap indices")
	}
}

func TestMatAddSubScale(t *testing.T) {
	a := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	if matDifferent(a.Add(a).Sub(a.Scale(2)), Mat3{}) {
		t.Error("a + a - 2a isn't zero")
	}
}

func TestMulVecOuterDot(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{-1, 0, 2}
	if d := a.Dot(b); d != 5 {
		t.Errorf("dot product was %v, should be 5", d)
	}
	o := Outer(a, b)
	if v := o.MulVec(Vec3{1, 1, 1}); v != a.Scale(b.Dot(Vec3{1, 1, 1})) {
		t.Errorf("(a·bᵗ)·1 was %v, should be %v", v, a.Scale(1))
	}
	if v := Diagonal3(a).MulVec(b); v != (Vec3{-1, 0, 6}) {
		t.Errorf("diagonal product was %v", v)
	}
}

func TestSymmetrize(t *testing.T) {
	a := Mat3{{1, 2, 3}, {0, 5, 6}, {1, 2, 9}}
	s := a.Symmetrize()
	if matDifferent(s, s.Transpose()) {
		t.Error("symmetrized matrix isn't symmetric")
	}
	if s[0][1] != 1 || s[0][2] != 2 || s[1][2] != 4 || s[1][1] != 5 {
		t.Errorf("symmetrized matrix was %v", s)
	}
}

func TestDet(t *testing.T) {
	if d := Identity3().Det(); d != 1 {
		t.Errorf("det I was %v, should be 1", d)
	}
	a := Mat3{{2, -3, 1}, {2, 0, -1}, {1, 4, 5}}
	if d := a.Det(); d != 49 {
		t.Errorf("det was %v, should be 49", d)
	}
	if d := (Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}).Det(); d != 0 {
		t.Errorf("singular matrix had det %v", d)
	}
}
