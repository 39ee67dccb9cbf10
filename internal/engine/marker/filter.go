package marker

// Filter may substitute the replacement of a pending splice of [r0, r1) in
// dst by src[from, to). Returning nil keeps the replacement unchanged;
// otherwise the returned content is used whole.
type Filter func(src Content, from, to int, dst *Buffer, r0, r1 int) Content

// MaxLength returns a filter that truncates replacements so the buffer never
// grows past n runes.
func MaxLength(n int) Filter {
	return func(src Content, from, to int, dst *Buffer, r0, r1 int) Content {
		keep := n - (dst.Len() - (r1 - r0))
		if keep >= to-from {
			return nil
		}
		if keep <= 0 {
			return Runes{}
		}
		return Sub(src, from, from+keep)
	}
}
