// Package theme keeps the process-wide display theme. It is independent of
// any submission: resetting a session never touches it.
package theme

import (
	"fmt"
	"strings"
	"sync/atomic"
)

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Default is the theme used before anything is set.
const Default = Dark

// Parse accepts "dark" or "light" in any case.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, nil
	case Light:
		return Light, nil
	default:
		return "", fmt.Errorf("unknown theme %q, expected dark or light", s)
	}
}

// Cell holds a theme that can be read and changed from any goroutine.
type Cell struct {
	v atomic.Value
}

func NewCell(t Theme) *Cell {
	c := &Cell{}
	c.Set(t)
	return c
}

func (c *Cell) Get() Theme {
	if t, ok := c.v.Load().(Theme); ok {
		return t
	}
	return Default
}

// Set stores t. Unknown values fall back to Default.
func (c *Cell) Set(t Theme) {
	if t != Dark && t != Light {
		t = Default
	}
	c.v.Store(t)
}

// Toggle flips between dark and light and returns the new theme.
func (c *Cell) Toggle() Theme {
	for {
		old := c.v.Load()
		next := Light
		if cur, ok := old.(Theme); ok && cur == Light {
			next = Dark
		}

		if old == nil {
			if c.v.CompareAndSwap(nil, next) {
				return next
			}
			continue
		}

		if c.v.CompareAndSwap(old, next) {
			return next
		}
	}
}

var global = NewCell(Default)

// Get returns the process-wide theme.
func Get() Theme { return global.Get() }

// Set changes the process-wide theme.
func Set(t Theme) { global.Set(t) }

// Toggle flips the process-wide theme.
func Toggle() Theme { return global.Toggle() }
