package zpool

import (
	"strings"
	"unicode"
)

// cursor is a read position over an immutable slice of report lines.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.lines)
}

// peek returns the line offset lines ahead of the current one.
func (c *cursor) peek(offset int) (string, bool) {
	i := c.pos + offset
	if i < 0 || i >= len(c.lines) {
		return "", false
	}
	return c.lines[i], true
}

func (c *cursor) current() string {
	line, _ := c.peek(0)
	return line
}

func (c *cursor) advance(n int) {
	c.pos += n
	if c.pos > len(c.lines) {
		c.pos = len(c.lines)
	}
}

// remaining is the number of unconsumed lines, the current one included.
func (c *cursor) remaining() int {
	return len(c.lines) - c.pos
}

// lineNo is the 1-based number of the current line.
func (c *cursor) lineNo() int {
	return c.pos + 1
}

// leadingSpace counts leading whitespace characters.
func leadingSpace(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
