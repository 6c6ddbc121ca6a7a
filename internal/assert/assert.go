// Package assert checks nvreduce's own structural invariants, such as
// InitTopoInfo's mesh reclassifying as HCM and TwoShot's shard
// ownership at the reduce-scatter write site. A violation
// here means a classifier or protocol bug, not a bad caller input, so
// unlike internal/errs it panics instead of returning an error rather
// than retrying against state it cannot trust.
//
// Generalized from KungFu's srcs/go/utils/assert, adapted for a library
// (panic, not os.Exit — a caller embedding this package must not have
// its whole process killed by an internal invariant check).
package assert

import (
	"fmt"
	"runtime"
)

func loc() string {
	_, fn, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s:%d", fn, line)
}

// True panics if ok is false.
func True(ok bool) {
	if !ok {
		panic(fmt.Sprintf("assertion failed at %s", loc()))
	}
}

// Truef panics with a formatted message if ok is false.
func Truef(ok bool, format string, v ...interface{}) {
	if !ok {
		panic(fmt.Sprintf("assertion failed at %s: %s", loc(), fmt.Sprintf(format, v...)))
	}
}

// OK panics if err is non-nil.
func OK(err error) {
	if err != nil {
		panic(fmt.Sprintf("assertion failed at %s: %v", loc(), err))
	}
}
