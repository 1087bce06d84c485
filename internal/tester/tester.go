// Package tester holds small generic assertions for tests that want a
// flat call style without pulling a mock framework into the package.
package tester

import (
	"fmt"
	"reflect"
	"testing"
)

func fail(t *testing.T, fallback string, msgAndArgs ...any) {
	t.Helper()
	if len(msgAndArgs) == 0 {
		t.Fatal(fallback)
	}
	if format, ok := msgAndArgs[0].(string); ok {
		t.Fatalf("%s: %s", fmt.Sprintf(format, msgAndArgs[1:]...), fallback)
	}
	t.Fatalf("%v: %s", msgAndArgs[0], fallback)
}

// Eq fails the test unless got deep-equals want.
func Eq[T any](t *testing.T, got, want T, msgAndArgs ...any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		fail(t, fmt.Sprintf("got=%v want=%v", got, want), msgAndArgs...)
	}
}

// True fails the test unless cond holds.
func True(t *testing.T, cond bool, msgAndArgs ...any) {
	t.Helper()
	if !cond {
		fail(t, "condition is false", msgAndArgs...)
	}
}

// False fails the test if cond holds.
func False(t *testing.T, cond bool, msgAndArgs ...any) {
	t.Helper()
	if cond {
		fail(t, "condition is true", msgAndArgs...)
	}
}

// NoErr fails the test if err is non-nil.
func NoErr(t *testing.T, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		fail(t, fmt.Sprintf("unexpected error: %v", err), msgAndArgs...)
	}
}
