// Package core holds process-wide panic handling for the terminal client
package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

// Finisher restores the terminal, satisfied by tcell.Screen
type Finisher interface {
	Fini()
}

var (
	mu          sync.Mutex
	crashScreen Finisher

	stderr io.Writer = os.Stderr
	stdout io.Writer = os.Stdout
	exit             = os.Exit
)

// Raw sequences used when no screen is registered: mouse tracking off, cursor on, leave alt screen, reset
var resetSeq = []byte("\x1b[?1003l\x1b[?1002l\x1b[?1000l\x1b[?1006l\x1b[?25h\x1b[?1049l\x1b[0m\x1b[?7h")

// SetCrashScreen registers the screen finalized by HandleCrash, nil clears it
func SetCrashScreen(s Finisher) {
	mu.Lock()
	crashScreen = s
	mu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	mu.Lock()
	s := crashScreen
	crashScreen = nil
	mu.Unlock()

	if s != nil {
		s.Fini()
	} else {
		stdout.Write(resetSeq)
	}

	fmt.Fprintf(stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())

	exit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the go keyword so a crash restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
