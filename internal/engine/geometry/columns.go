package geometry

import "github.com/rivo/uniseg"

// ColumnOf returns the display column of offset within its line. An offset
// inside a grapheme cluster reports the column after that cluster.
func (l *Lines) ColumnOf(offset int) int {
	line := l.LineOf(offset)
	start := l.LineStart(line)
	offset = min(max(offset, start), l.LineEnd(line))

	result, pos := 0, start
	l.eachCluster(line, func(col, width, runes int) bool {
		if pos >= offset {
			return false
		}
		result = col + width
		pos += runes
		return true
	})
	return result
}

// OffsetForColumn returns the offset on line whose column is the largest not
// exceeding col. Columns past the end of the line give the line end.
func (l *Lines) OffsetForColumn(line, col int) int {
	line = clampLine(line, l.LineCount())
	pos := l.LineStart(line)
	l.eachCluster(line, func(c, width, runes int) bool {
		if c+width > col {
			return false
		}
		pos += runes
		return true
	})
	return pos
}

// Width returns the display width of line.
func (l *Lines) Width(line int) int {
	return l.ColumnOf(l.LineEnd(line))
}

// eachCluster walks the grapheme clusters of line, passing each cluster's
// starting column, its width and its length in runes. It stops when fn
// returns false.
func (l *Lines) eachCluster(line int, fn func(col, width, runes int) bool) {
	text := string(l.src.Slice(l.LineStart(line), l.LineEnd(line)))
	g := uniseg.NewGraphemes(text)
	col := 0
	for g.Next() {
		cluster := g.Runes()
		width := g.Width()
		if len(cluster) == 1 && cluster[0] == '\t' {
			width = l.tabWidth - col%l.tabWidth
		}
		if !fn(col, width, len(cluster)) {
			return
		}
		col += width
	}
}
