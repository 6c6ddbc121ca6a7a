package corelog

import "fmt"

// xterm color codes for the error prefix, generalized from
// KungFu's srcs/go/utils/xterm/color.go (trimmed to the one color the
// core logger actually uses).
type color struct{ f, b uint8 }

func (c color) S(text string) string {
	return fmt.Sprintf("\x1b[%d;%dm%s\x1b[m", c.b, c.f, text)
}

var warnColor = color{f: 35, b: 1}
