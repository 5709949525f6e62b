package nid

import (
	"testing"

	"github.com/oisee/boolex/pkg/vid"
)

func TestConstants(t *testing.T) {
	if !IsConst(O) || IsInv(O) {
		t.Fatalf("O: IsConst=%v IsInv=%v, want true/false", IsConst(O), IsInv(O))
	}
	if !IsConst(I) || !IsInv(I) {
		t.Fatalf("I: IsConst=%v IsInv=%v, want true/true", IsConst(I), IsInv(I))
	}
	if Not(O) != I || Not(I) != O {
		t.Fatal("Not(O) != I or Not(I) != O")
	}
	if Vid(O) != vid.Top || Vid(I) != vid.Top {
		t.Fatal("constants must branch on vid.Top")
	}
}

func TestLiteralRoundTrip(t *testing.T) {
	x3 := FromVid(vid.Var(3))
	if !IsVar(x3) || IsVir(x3) || IsConst(x3) || IsFun(x3) {
		t.Fatalf("x3 predicates wrong: var=%v vir=%v const=%v fun=%v", IsVar(x3), IsVir(x3), IsConst(x3), IsFun(x3))
	}
	if got := Vid(x3); got != vid.Var(3) {
		t.Fatalf("Vid(x3) = %v, want Var(3)", got)
	}

	v7 := FromVid(vid.Vir(7))
	if !IsVir(v7) || IsVar(v7) {
		t.Fatalf("v7 predicates wrong: var=%v vir=%v", IsVar(v7), IsVir(v7))
	}
	if got := Vid(v7); got != vid.Vir(7) {
		t.Fatalf("Vid(v7) = %v, want Vir(7)", got)
	}
}

func TestInversionIsIndependentOfPayload(t *testing.T) {
	x3 := FromVid(vid.Var(3))
	nx3 := Not(x3)
	if !IsInv(nx3) {
		t.Fatal("Not(x3) should carry INV")
	}
	if Vid(nx3) != vid.Var(3) {
		t.Fatal("Not(x3) should still branch on x3's variable")
	}
	if Raw(nx3) != x3 {
		t.Fatal("Raw(Not(x3)) should equal x3")
	}
}

func TestIndexedNode(t *testing.T) {
	n := FromVidIdx(vid.Var(2), 1234)
	if IsLit(n) || IsConst(n) || IsFun(n) {
		t.Fatal("indexed node should not be lit/const/fun")
	}
	if got := Idx(n); got != 1234 {
		t.Fatalf("Idx(n) = %d, want 1234", got)
	}
	if got := Vid(n); got != vid.Var(2) {
		t.Fatalf("Vid(n) = %v, want Var(2)", got)
	}
}

func TestBareIxn(t *testing.T) {
	n := FromVidIdx(vid.NoVar, 5)
	if !IsIxn(n) {
		t.Fatal("expected IsIxn for a NoVar-indexed node")
	}
	if IsVid(n) {
		t.Fatal("a bare indexed node should not be IsVid")
	}
}

func TestFunTbl(t *testing.T) {
	// XOR of two inputs: rows 01 and 10 are 1, i.e. tbl = 0b0110.
	xor2 := FunTbl(2, 0b0110)
	if !IsFun(xor2) {
		t.Fatal("expected IsFun")
	}
	if got := Arity(xor2); got != 2 {
		t.Fatalf("Arity = %d, want 2", got)
	}
	if got := Tbl(xor2); got != 0b0110 {
		t.Fatalf("Tbl = %b, want 0110", got)
	}
	if Vid(xor2) != vid.NoVar {
		t.Fatal("function nodes should report vid.NoVar")
	}
}

func TestFunTblPanicsOnBadArity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for arity > 5")
		}
	}()
	FunTbl(6, 0)
}

func TestMightDependOn(t *testing.T) {
	x5 := FromVidIdx(vid.Var(5), 0)
	if MightDependOn(O, vid.Var(0)) {
		t.Fatal("constants never depend on anything")
	}
	if MightDependOn(x5, vid.Var(10)) {
		t.Fatal("a node branching on x5 cannot depend on x10, which sits above it")
	}
	if !MightDependOn(x5, vid.Var(0)) {
		t.Fatal("a node branching on x5 might depend on x0, which sits below it")
	}
	if !MightDependOn(x5, vid.Var(5)) {
		t.Fatal("a node might depend on its own branch variable")
	}
}

func TestWhenRestrictsArity(t *testing.T) {
	// f(a,b) = a AND b: tbl row index = b*2+a (bit0=a, bit1=b); rows: 00->0,01->0,10->0,11->1
	and2 := uint32(0b1000)
	// restrict bit 0 (a) to 1: remaining function of b alone should be identity (f=b)
	got := When(and2, 2, 0, 1)
	want := uint32(0b10) // f(b)=b: row0(b=0)->0,row1(b=1)->1
	if got != want {
		t.Fatalf("When(and2,2,0,1) = %b, want %b", got, want)
	}
}

func TestWhenSameAndDiff(t *testing.T) {
	xor2 := uint32(0b0110)
	same := WhenSame(xor2, 2, 0, 1)
	if same != 0 {
		t.Fatalf("WhenSame on xor should be constantly 0, got %b", same)
	}
	diff := WhenDiff(xor2, 2, 0, 1)
	if diff != 0b11 {
		t.Fatalf("WhenDiff on xor should be constantly 1 (both rows set), got %b", diff)
	}
}

func TestWhenFlippedAndLifted(t *testing.T) {
	// f(a,b) = a AND NOT b, row index = a + 2*b: only (a=1,b=0) is 1 => tbl=0b0010
	f := uint32(0b0010)
	flipped := WhenFlipped(f, 2, 0b01) // flip input a
	// g(a,b) = f(NOT a, b) = (NOT a) AND NOT b: only (a=0,b=0) is 1 => 0b0001
	if flipped != 0b0001 {
		t.Fatalf("WhenFlipped = %b, want 0001", flipped)
	}
	lifted := WhenLifted(f, 2, 0)
	// swapping a,b: g(a,b)=f(b,a) = b AND NOT a: only (a=0,b=1) is 1 => 0b0100
	if lifted != 0b0100 {
		t.Fatalf("WhenLifted = %b, want 0100", lifted)
	}
}

func TestStringAndParseRoundTrip(t *testing.T) {
	cases := []NID{
		O, I,
		FromVid(vid.Var(3)),
		Not(FromVid(vid.Var(3))),
		FromVid(vid.Vir(0xff)),
		FromVidIdx(vid.Var(2), 0x10),
		FromVidIdx(vid.NoVar, 0x20),
		FunTbl(2, 0b0110),
	}
	for _, n := range cases {
		s := n.String()
		got, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", s, err)
		}
		if got != n {
			t.Errorf("round trip %q: got %#x, want %#x", s, uint64(got), uint64(n))
		}
	}
}
