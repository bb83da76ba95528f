package cover

// incumbent is the smallest complete cover found so far.
type incumbent struct {
	ids   []ID
	found bool
}

// exists reports whether any complete cover has been found.
func (b *incumbent) exists() bool {
	return b.found
}

// size returns the number of Sets in the incumbent cover.
func (b *incumbent) size() int {
	return len(b.ids)
}

// offer replaces the incumbent with a copy of ids if there is no
// incumbent yet or ids is strictly shorter. It reports whether the
// incumbent was replaced.
func (b *incumbent) offer(ids []ID) bool {
	if b.found && len(ids) >= len(b.ids) {
		return false
	}
	b.ids = append(make([]ID, 0, len(ids)), ids...)
	b.found = true
	return true
}

// improves reports whether a cover of size n could replace the
// incumbent.
func (b *incumbent) improves(n int) bool {
	return !b.found || n < len(b.ids)
}
