// Package goroutine launches background work that must never take the
// process down with it.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// SafeGo runs fn in a new goroutine and logs a panic with its stack instead
// of crashing.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
