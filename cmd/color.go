package cmd

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

var (
	colorOnce sync.Once
	colorOn   bool
)

// useColor reports whether stderr should get ANSI colors.
func useColor() bool {
	colorOnce.Do(func() {
		// NO_COLOR convention: https://no-color.org/
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return
		}
		if os.Getenv("TERM") == "dumb" {
			return
		}
		fd := os.Stderr.Fd()
		colorOn = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	})
	return colorOn
}

func red(s string) string {
	if !useColor() {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}
