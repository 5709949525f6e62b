package vid

import "testing"

func TestDepthOrdering(t *testing.T) {
	tests := []struct {
		name     string
		a, b VID
		want Ordering // CmpDepth(a, b)
	}{
		{"top below novar", Top, NoVar, Below},
		{"novar above top", NoVar, Top, Above},
		{"top below var0", Top, Var(0), Below},
		{"var0 below var1", Var(0), Var(1), Below},
		{"var1 above var0", Var(1), Var(0), Above},
		{"var level", Var(5), Var(5), Level},
		{"var below vir regardless of index", Var(1000), Vir(0), Below},
		{"vir above var regardless of index", Vir(0), Var(1000), Above},
		{"vir0 below vir1", Vir(0), Vir(1), Below},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CmpDepth(tc.a, tc.b); got != tc.want {
				t.Errorf("CmpDepth(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestVarOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range Var index")
		}
	}()
	Var(MaxIx)
}

func TestVirOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range Vir index")
		}
	}()
	Vir(MaxIx)
}

func TestIxPanicsOnTopAndNoVar(t *testing.T) {
	for _, v := range []VID{Top, NoVar} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected Ix() to panic on %v", v)
				}
			}()
			v.Ix()
		}()
	}
}

func TestBit(t *testing.T) {
	if got := Var(3).Bit(); got != 0b1000 {
		t.Errorf("Var(3).Bit() = %b, want 1000", got)
	}
	if got := Vir(0).Bit(); got != 1 {
		t.Errorf("Vir(0).Bit() = %b, want 1", got)
	}
}

func TestString(t *testing.T) {
	cases := map[VID]string{
		Top:     "TOP",
		NoVar:   "-",
		Var(10): "xa",
		Vir(255): "vff",
	}
	for v, want := range cases {
		if got := v.String(); got != want {
			t.Errorf("%#v.String() = %q, want %q", v, got, want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	cases := []VID{Top, NoVar, Var(10), Vir(255), Var(0), Vir(0)}
	for _, v := range cases {
		s := v.String()
		got, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", s, err)
		}
		if got != v {
			t.Errorf("Parse(%q) = %#v, want %#v", s, got, v)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "y3", "xg", "TOPX"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected an error", s)
		}
	}
}
