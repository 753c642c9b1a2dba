package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestBar(t *testing.T) {
	cases := []struct {
		p    float64
		full int
	}{
		{0, 0},
		{0.5, 10},
		{0.87, 17},
		{1, BarWidth},
		{1.4, BarWidth},
		{-0.2, 0},
	}
	for _, tc := range cases {
		got := Bar(tc.p)
		if n := strings.Count(got, "█"); n != tc.full {
			t.Fatalf("Bar(%v) full=%d want %d", tc.p, n, tc.full)
		}
		if n := strings.Count(got, "░"); n != BarWidth-tc.full {
			t.Fatalf("Bar(%v) empty=%d", tc.p, n)
		}
	}
}

func TestMessagesWithoutColor(t *testing.T) {
	Init(true)
	var buf bytes.Buffer
	Success(&buf, "%d comments", 3)
	Warning(&buf, "skipped %s", "row 2")
	Error(&buf, "boom")
	want := "✓ 3 comments\n⚠ skipped row 2\n✗ boom\n"
	if buf.String() != want {
		t.Fatalf("got %q", buf.String())
	}
	if Paint("marah", "Marah") != "Marah" || Paint("unknown", "x") != "x" {
		t.Fatal("color leaked with NoColor set")
	}
}

func TestProgressWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 2, "classifying")
	p.Add()
	p.Add()
	p.Finish()
	if !strings.Contains(buf.String(), "classifying") {
		t.Fatalf("progress output %q", buf.String())
	}
}
