package merge3

import "testing"

func TestThreeWayCleanMerge(t *testing.T) {
	ancestor := []string{"A", "B", "C"}
	into := []string{"A0", "B", "C"}  // branch Y
	from := []string{"A", "B", "C", "D"} // branch X

	res := ThreeWay("Y", into, "X", from, ancestor)
	if res.HasConflict {
		t.Fatalf("expected clean merge, got conflict: %v", res.Lines)
	}
	want := []string{"A0", "B", "C", "D"}
	if !equal(res.Lines, want) {
		t.Fatalf("got %v, want %v", res.Lines, want)
	}
}

func TestThreeWayConflict(t *testing.T) {
	ancestor := []string{"X"}
	into := []string{"two"}
	from := []string{"one"}

	res := ThreeWay("Y", into, "X", from, ancestor)
	if !res.HasConflict {
		t.Fatal("expected conflict")
	}
	want := []string{"<<<<<<< Y", "two", "=======", "one", ">>>>>>> X"}
	if !equal(res.Lines, want) {
		t.Fatalf("got %v, want %v", res.Lines, want)
	}
}

func TestNoAncestorDivergentRegion(t *testing.T) {
	into := []string{"one", "two", "three"}
	from := []string{"one", "TWO", "three"}

	res := NoAncestor("Y", into, "X", from)
	if !res.HasConflict {
		t.Fatal("expected conflict")
	}
	want := []string{"one", "<<<<<<< Y", "two", "=======", "TWO", ">>>>>>> X", "three"}
	if !equal(res.Lines, want) {
		t.Fatalf("got %v, want %v", res.Lines, want)
	}
}

func TestNoAncestorIdenticalProducesNoConflict(t *testing.T) {
	into := []string{"a", "b"}
	from := []string{"a", "b"}
	res := NoAncestor("Y", into, "X", from)
	if res.HasConflict {
		t.Fatalf("expected no conflict, got %v", res.Lines)
	}
}

func equal(a, b []string) bool {
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
