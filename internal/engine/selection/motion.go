package selection

// MoveLeft collapses a range to its start, or moves a collapsed cursor one
// rune left.
func (s *Selection) MoveLeft() bool {
	return s.moveHorizontal(-1)
}

// MoveRight collapses a range to its end, or moves a collapsed cursor one
// rune right.
func (s *Selection) MoveRight() bool {
	return s.moveHorizontal(1)
}

// MoveUp collapses a range to its start, or moves a collapsed cursor to the
// line above.
func (s *Selection) MoveUp() bool {
	switch s.State() {
	case None:
		return false
	case Range:
		return s.collapse(s.Start())
	}
	return s.moveVertical(-1, false)
}

// MoveDown collapses a range to its end, or moves a collapsed cursor to the
// line below.
func (s *Selection) MoveDown() bool {
	switch s.State() {
	case None:
		return false
	case Range:
		return s.collapse(s.End())
	}
	return s.moveVertical(1, false)
}

// ExtendLeft moves the cursor one rune left, keeping the anchor.
func (s *Selection) ExtendLeft() bool {
	return s.extendHorizontal(-1)
}

// ExtendRight moves the cursor one rune right, keeping the anchor.
func (s *Selection) ExtendRight() bool {
	return s.extendHorizontal(1)
}

// ExtendUp moves the cursor to the line above, keeping the anchor.
func (s *Selection) ExtendUp() bool {
	if s.State() == None {
		return false
	}
	return s.moveVertical(-1, true)
}

// ExtendDown moves the cursor to the line below, keeping the anchor.
func (s *Selection) ExtendDown() bool {
	if s.State() == None {
		return false
	}
	return s.moveVertical(1, true)
}

// MoveToLeftEdge collapses the selection at the start of the cursor's line.
func (s *Selection) MoveToLeftEdge() bool {
	return s.toEdge(false, false)
}

// MoveToRightEdge collapses the selection at the end of the cursor's line.
func (s *Selection) MoveToRightEdge() bool {
	return s.toEdge(true, false)
}

// ExtendToLeftEdge moves the cursor to the start of its line, keeping the
// anchor.
func (s *Selection) ExtendToLeftEdge() bool {
	return s.toEdge(false, true)
}

// ExtendToRightEdge moves the cursor to the end of its line, keeping the
// anchor.
func (s *Selection) ExtendToRightEdge() bool {
	return s.toEdge(true, true)
}

func (s *Selection) moveHorizontal(dir int) bool {
	switch s.State() {
	case None:
		return false
	case Range:
		if dir < 0 {
			return s.collapse(s.Start())
		}
		return s.collapse(s.End())
	}
	s.forget()
	to := s.Cursor() + dir
	if to < 0 || to > s.buf.Len() {
		return false
	}
	return moved(s.place(to, to))
}

func (s *Selection) extendHorizontal(dir int) bool {
	if s.State() == None {
		return false
	}
	s.forget()
	to := s.Cursor() + dir
	if to < 0 || to > s.buf.Len() {
		return false
	}
	return moved(s.place(s.Anchor(), to))
}

func (s *Selection) collapse(offset int) bool {
	s.forget()
	_, err := s.place(offset, offset)
	return err == nil
}

// moveVertical moves the cursor to the adjacent line in dir, at the
// remembered column when there is one. Past the first or last line the
// cursor goes to that line's start or end.
func (s *Selection) moveVertical(dir int, extend bool) bool {
	cur := s.Cursor()
	col, ok := s.remembered(cur)
	if !ok {
		col = s.geom.ColumnOf(cur)
	}

	line := s.geom.LineOf(cur) + dir
	last := s.geom.LineOf(s.buf.Len())
	var to int
	switch {
	case line < 0:
		to = s.geom.LineStart(0)
	case line > last:
		to = s.geom.LineEnd(last)
	default:
		to = s.geom.OffsetForColumn(line, col)
		to = min(max(to, s.geom.LineStart(line)), s.geom.LineEnd(line))
	}
	if to == cur {
		return false
	}

	anchor := to
	if extend {
		anchor = s.Anchor()
	}
	if _, err := s.place(anchor, to); err != nil {
		return false
	}
	s.remember(to, col)
	return true
}

func (s *Selection) toEdge(right, extend bool) bool {
	if s.State() == None {
		return false
	}
	s.forget()
	line := s.geom.LineOf(s.Cursor())
	to := s.geom.LineStart(line)
	if right {
		to = s.geom.LineEnd(line)
	}
	anchor := to
	if extend {
		anchor = s.Anchor()
	}
	return moved(s.place(anchor, to))
}
