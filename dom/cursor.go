package dom

// Cursor is a movable position in an element tree. It implements css.Node.
type Cursor struct {
	cur   *Element
	stack []*Element
}

// NewCursor returns cursor at element.
func NewCursor(e *Element) *Cursor { return &Cursor{cur: e} }

// Element returns element at the cursor.
func (c *Cursor) Element() *Element { return c.cur }

// Reset moves cursor to element and forgets saved positions.
func (c *Cursor) Reset(e *Element) {
	c.cur = e
	c.stack = c.stack[:0]
}

func (c *Cursor) Name() string                         { return c.cur.Name }
func (c *Cursor) ID() string                           { return c.cur.ID() }
func (c *Cursor) Lang() string                         { return c.cur.Lang() }
func (c *Cursor) Classes() []string                    { return c.cur.Classes() }
func (c *Cursor) PseudoClasses() []string              { return c.cur.PseudoClasses() }
func (c *Cursor) Attribute(name string) (string, bool) { return c.cur.Attribute(name) }

// Parent moves to the parent element.
func (c *Cursor) Parent() bool {
	if c.cur.Parent == nil {
		return false
	}
	c.cur = c.cur.Parent
	return true
}

// PrevSibling moves to the preceding element sibling.
func (c *Cursor) PrevSibling() bool {
	p := c.cur.PrevSibling()
	if p == nil {
		return false
	}
	c.cur = p
	return true
}

// Push saves cursor position.
func (c *Cursor) Push() { c.stack = append(c.stack, c.cur) }

// Pop restores the last saved position.
func (c *Cursor) Pop() {
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}
