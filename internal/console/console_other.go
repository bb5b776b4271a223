//go:build !windows

package console

import (
	"fmt"
	"os"
)

func alloc() error { return nil }

func free() error { return nil }

// Alert writes the message to stderr.
func Alert(title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}
