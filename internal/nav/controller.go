package nav

// frame is one level of the controller's ancestor stack.
type frame struct {
	pos    int
	cursor int
}

// Controller answers movement commands over a built Index. All
// movements are total: an invalid move leaves the position unchanged.
type Controller struct {
	idx    *Index
	curr   int
	cursor int // cyclic position within the current sibling ring
	stack  []frame
}

// NewController starts navigation at the root (arena index 0).
func NewController(idx *Index) *Controller {
	return &Controller{idx: idx}
}

// Current returns the arena index of the current position.
func (c *Controller) Current() int {
	return c.curr
}

// Depth returns how many ancestors are on the stack.
func (c *Controller) Depth() int {
	return len(c.stack)
}

// AtRoot reports whether the current position is the walk root.
func (c *Controller) AtRoot() bool {
	return len(c.stack) == 0
}

// Enter descends to the current node's first child, if any. Returns
// true if the position moved.
func (c *Controller) Enter() bool {
	fc := c.idx.Records[c.curr].FirstChild
	if fc == None {
		return false
	}
	c.stack = append(c.stack, frame{pos: c.curr, cursor: c.cursor})
	c.curr = fc
	c.cursor = 0
	return true
}

// Exit ascends to the parent recorded on the stack, if any. Returns
// true if the position moved.
func (c *Controller) Exit() bool {
	if len(c.stack) == 0 {
		return false
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.curr = top.pos
	c.cursor = top.cursor
	return true
}

// Move advances n siblings forward (negative n moves backward), with
// wraparound over the circular sibling list. Sibling movement at the
// root is a no-op. Returns true if the position moved.
func (c *Controller) Move(n int) bool {
	if len(c.stack) == 0 {
		return false
	}
	k := c.idx.Records[c.curr].Siblings
	steps := ((n % k) + k) % k
	if steps == 0 {
		return false
	}
	for range steps {
		c.curr = c.idx.Records[c.curr].Next
	}
	c.cursor = (c.cursor + steps) % k
	return true
}

// Next moves to the next sibling.
func (c *Controller) Next() bool { return c.Move(1) }

// Prev moves to the previous sibling.
func (c *Controller) Prev() bool { return c.Move(-1) }
