package jnikit

// resetDefault discards the process-wide bridge so tests can install
// their own VM. Only the test binary links this.
func resetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultBr = nil
}
