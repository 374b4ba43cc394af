package jnikit

import (
	"fmt"

	"github.com/swifdroid/jnikit/jni"
)

// defaultFrameCapacity is used when WithLocalFrame is given no useful
// capacity hint.
const defaultFrameCapacity = 16

// WithLocalFrame runs fn inside a fresh local reference frame: every
// local reference created by fn is freed when WithLocalFrame returns,
// whether fn succeeds, fails, or panics. Use it around bursts of
// lookups and calls so transient references cannot exhaust the
// thread's local reference table.
//
// capacity is a lower bound on the number of locals the frame can
// hold; values below 1 fall back to a small default. To keep a
// reference created inside the frame, promote it to a global one
// before returning.
func WithLocalFrame(env jni.Env, capacity int, fn func() error) error {
	if env == nil {
		return fmt.Errorf("local frame: %w", ErrNotAttached)
	}
	if capacity < 1 {
		capacity = defaultFrameCapacity
	}
	if st := env.PushLocalFrame(capacity); !st.OK() {
		return fmt.Errorf("push local frame: %w", st.Err())
	}
	defer env.PopLocalFrame(0)
	return fn()
}
