package doccanvas

// Cursor is the vertical drawing position owned by one drawing. It only
// moves down.
type Cursor struct {
	Y int
}

// Advance moves the cursor down by dy pixels. Negative values are ignored.
func (c *Cursor) Advance(dy int) {
	if dy > 0 {
		c.Y += dy
	}
}

// MoveTo moves the cursor to y when y is below the current position.
func (c *Cursor) MoveTo(y int) {
	if y > c.Y {
		c.Y = y
	}
}
