package runtimex

import "testing"

func TestPanicIfFalse(t *testing.T) {
	t.Run("with true assertion", func(t *testing.T) {
		PanicIfFalse(true, "xcrun")
	})

	t.Run("with false assertion", func(t *testing.T) {
		var got any
		func() {
			defer func() {
				got = recover()
			}()
			PanicIfFalse(false, "xcrun")
		}()
		if got != "xcrun" {
			t.Fatal("unexpected panic value", got)
		}
	})
}
