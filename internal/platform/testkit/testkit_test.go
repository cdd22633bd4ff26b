package testkit

import (
	"sync"
	"testing"
	"time"
)

var seamValue = "orig"

func TestSwapRestores(t *testing.T) {
	t.Run("inner", func(t *testing.T) {
		Swap(t, &seamValue, "swapped")
		if seamValue != "swapped" {
			t.Fatalf("swap not applied")
		}
	})
	if seamValue != "orig" {
		t.Fatalf("swap not restored: %q", seamValue)
	}
}

func TestSerialExcludes(t *testing.T) {
	var (
		mu     sync.Mutex
		active int
		peak   int
	)
	enter := func() {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
	}
	leave := func() {
		mu.Lock()
		active--
		mu.Unlock()
	}
	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"a", "b", "c"} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				enter()
				time.Sleep(10 * time.Millisecond)
				leave()
			})
		}
	})
	if peak != 1 {
		t.Fatalf("serial tests overlapped, peak=%d", peak)
	}
}

func TestAssertions(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustContain(t, "sku EL81808", "EL8")

	type rec struct {
		SKU string `json:"sku"`
	}
	if got := DecodeJSON[rec](t, []byte(`{"sku":"EA10171"}`)); got.SKU != "EA10171" {
		t.Fatalf("DecodeJSON = %+v", got)
	}
}
