package taskmap

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Ignore, Warn or Error on duplicate JSON keys.
}

// DecodeOpt bundles decode options.
type DecodeOpt struct {
	Strictness Strictness
	MaxDepth   int   // 0 disables the check.
	MaxBytes   int64 // 0 disables the check.
	// FailFast stops at the first issue instead of collecting every issue of
	// the object being decoded.
	FailFast bool
	// OnWarning receives non-fatal issues such as duplicate key warnings.
	OnWarning func(Issue)
}
