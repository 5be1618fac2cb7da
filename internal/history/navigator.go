package history

// Navigator steps through past sources. Its position starts just past the
// newest entry, where the console shows an empty input.
type Navigator struct {
	entries []string
	index   int
}

// NewNavigator creates a navigator over entries, oldest first.
func NewNavigator(entries []string) *Navigator {
	n := &Navigator{entries: append([]string(nil), entries...)}
	n.Reset()
	return n
}

// Back moves to the next older entry and returns it. At the oldest entry it
// stays put. With no entries it returns "".
func (n *Navigator) Back() string {
	if len(n.entries) == 0 {
		return ""
	}
	if n.index > 0 {
		n.index--
	}
	return n.entries[n.index]
}

// Forward moves to the next newer entry and returns it. Moving past the
// newest entry returns "".
func (n *Navigator) Forward() string {
	if n.index < len(n.entries) {
		n.index++
	}
	if n.index == len(n.entries) {
		return ""
	}
	return n.entries[n.index]
}

// Push records source as the newest entry and resets the position.
func (n *Navigator) Push(source string) {
	n.entries = append(n.entries, source)
	n.Reset()
}

// Reset moves past the newest entry.
func (n *Navigator) Reset() {
	n.index = len(n.entries)
}

// Len returns the number of entries.
func (n *Navigator) Len() int {
	return len(n.entries)
}

// Last returns the newest entry, or "" when there is none.
func (n *Navigator) Last() string {
	if len(n.entries) == 0 {
		return ""
	}
	return n.entries[len(n.entries)-1]
}
