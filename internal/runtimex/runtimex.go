// Package runtimex contains helpers for conditions that no error return
// can recover from.
package runtimex

// PanicIfFalse calls panic if assertion is false.
func PanicIfFalse(assertion bool, message string) {
	if !assertion {
		panic(message)
	}
}
