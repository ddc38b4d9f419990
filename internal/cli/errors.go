package cli

import "errors"

// ErrUsage is the sentinel every operator mistake matches via errors.Is:
// unknown flags, malformed config files, rejected input documents. It exists
// so callers and tests can distinguish misuse from pipeline failures.
var ErrUsage = errors.New("usage error")

// usageErr carries the formatted message, often including a command's usage
// text, and matches ErrUsage.
type usageErr string

func newUsageError(msg string) error { return usageErr(msg) }

func (e usageErr) Error() string { return string(e) }

func (e usageErr) Is(target error) bool { return target == ErrUsage }
