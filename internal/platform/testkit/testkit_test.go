package testkit

import (
	"os"
	"testing"
)

var seamValue = "orig"

func TestSwapRestores(t *testing.T) {
	t.Run("swap", func(t *testing.T) {
		Swap(t, &seamValue, "swapped")
		if seamValue != "swapped" {
			t.Fatalf("swap not applied: %q", seamValue)
		}
	})
	if seamValue != "orig" {
		t.Fatalf("swap not restored: %q", seamValue)
	}
}

func TestHelpers(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustContain(t, "marah netral sedih senang", "sedih")

	p := WriteFile(t, "kw.json", `{"version":1}`)
	b, err := os.ReadFile(p)
	if err != nil || string(b) != `{"version":1}` {
		t.Fatalf("WriteFile round trip: %q %v", b, err)
	}
}
