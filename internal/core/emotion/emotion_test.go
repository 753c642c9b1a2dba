package emotion

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		size int
		keys []string
	}{
		{name: "default", in: "", size: 4, keys: []string{"marah", "netral", "sedih", "senang"}},
		{name: "basic4 mixed case", in: " Basic4 ", size: 4, keys: []string{"marah", "netral", "sedih", "senang"}},
		{name: "extended6", in: "extended6", size: 6, keys: []string{"cemas", "marah", "netral", "optimis", "sedih", "senang"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Lookup(tc.in)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tc.in, err)
			}
			if s.Size() != tc.size {
				t.Fatalf("size=%d want %d", s.Size(), tc.size)
			}
			for i, k := range s.Keys() {
				if k != tc.keys[i] {
					t.Fatalf("key[%d]=%q want %q", i, k, tc.keys[i])
				}
				l, _ := s.Label(i)
				if l.Index != i || l.Name == "" || l.Icon == "" {
					t.Fatalf("label %d incomplete: %+v", i, l)
				}
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("plutchik8"); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
}

func TestBasic4Presentation(t *testing.T) {
	s := MustLookup(Basic4)
	i, ok := s.Index("MARAH")
	if !ok || i != 0 {
		t.Fatalf("Index(marah)=%d,%v", i, ok)
	}
	l, _ := s.Label(3)
	if l.Name != "Senang / Optimis" || l.BgColor != "#d4edda" || l.TextColor != "#155724" {
		t.Fatalf("unexpected senang label: %+v", l)
	}
	if _, ok := s.Label(4); ok {
		t.Fatalf("expected out-of-range label to be missing")
	}
	if _, ok := s.Index("cemas"); ok {
		t.Fatalf("cemas is not part of basic4")
	}
}
