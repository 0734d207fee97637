// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// recorder captures Fatalf instead of stopping the test.
type recorder struct {
	failed  bool
	message string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
}

func TestRequireReceiveReturnsValue(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}
}

func TestRequireClosedTimesOut(t *testing.T) {
	r := &recorder{}
	RequireClosed(r, make(chan struct{}), time.Millisecond, "waiting for %s", "nothing")
	if !r.failed {
		t.Fatal("an open channel should time out")
	}
	if want := "waiting for nothing"; !strings.Contains(r.message, want) {
		t.Errorf("message = %q, want it to mention %q", r.message, want)
	}
}

func TestEventually(t *testing.T) {
	calls := 0
	Eventually(t, func() bool { calls++; return calls == 3 }, time.Second)
	if calls != 3 {
		t.Errorf("condition evaluated %d times, want 3", calls)
	}

	r := &recorder{}
	Eventually(r, func() bool { return false }, time.Millisecond)
	if !r.failed {
		t.Error("a condition that never holds should fail")
	}
}
