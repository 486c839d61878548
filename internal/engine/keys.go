package engine

// KeyTracker tells object keys apart from string values for token APIs that
// report both as plain strings (encoding/json and go-json Decoder.Token).
type KeyTracker struct {
	stack []keyFrame
}

type keyFrame struct {
	object    bool
	expectKey bool
}

// Open records a container start.
func (k *KeyTracker) Open(object bool) {
	k.stack = append(k.stack, keyFrame{object: object, expectKey: object})
}

// Close records a container end, which completes a value in the parent.
func (k *KeyTracker) Close() {
	if n := len(k.stack); n > 0 {
		k.stack = k.stack[:n-1]
	}
	k.Value()
}

// IsKey is called for every string token. It reports whether the string is an
// object key and updates the state accordingly.
func (k *KeyTracker) IsKey() bool {
	if n := len(k.stack); n > 0 && k.stack[n-1].expectKey {
		k.stack[n-1].expectKey = false
		return true
	}
	k.Value()
	return false
}

// Value records a completed value.
func (k *KeyTracker) Value() {
	if n := len(k.stack); n > 0 && k.stack[n-1].object {
		k.stack[n-1].expectKey = true
	}
}
