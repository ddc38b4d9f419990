package runtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// Render encodes a JSON value for output. HTML escaping is off so response
// payloads round-trip unchanged.
func Render(v any, pretty bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode output: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// WriteLine writes one line to stdout. A closed consumer is not a failure:
// on a broken pipe the process exits 0 immediately. SIGPIPE must be ignored
// (the mains do this) or the runtime re-raises the signal and the write never
// reports EPIPE.
func WriteLine(s string) error {
	if _, err := fmt.Fprintln(os.Stdout, s); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			os.Exit(0)
		}
		return err
	}
	return nil
}
