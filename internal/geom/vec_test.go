package geom

import "testing"

func TestAddSub(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{4, -1, 0.5}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 1 || sum[2] != 3.5 {
		t.Errorf("unexpected sum: %v", sum)
	}

	diff := a.Sub(b)
	if diff[0] != -3 || diff[1] != 3 || diff[2] != 2.5 {
		t.Errorf("unexpected diff: %v", diff)
	}
}

func TestScale(t *testing.T) {
	v := Vec{1, -2}
	r := v.Scale(3)
	if r[0] != 3 || r[1] != -6 {
		t.Errorf("unexpected scale: %v", r)
	}
}

func TestDotAndNorm(t *testing.T) {
	v := Vec{3, 4}
	if v.Dot(v) != 25 {
		t.Errorf("expected dot 25, got %v", v.Dot(v))
	}
	if v.Norm() != 5 {
		t.Errorf("expected norm 5, got %v", v.Norm())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	v := Vec{1, 2}
	c := v.Clone()
	c[0] = 99
	if v[0] != 1 {
		t.Errorf("expected original unaffected, got %v", v[0])
	}
}

func TestNewIsZeroed(t *testing.T) {
	v := New(3)
	for i, c := range v {
		if c != 0 {
			t.Errorf("expected component %d to be zero, got %v", i, c)
		}
	}
}
