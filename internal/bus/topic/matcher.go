package topic

// Matcher holds a set of topic patterns in a trie and answers whether a
// concrete topic matches any of them. It is not safe for concurrent use;
// the bus that owns it is single-threaded.
type Matcher struct {
	root  *trieNode
	count int
}

type trieNode struct {
	children map[string]*trieNode
	terminal bool
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

// NewMatcher creates an empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{root: newTrieNode()}
}

// Add adds a pattern. Duplicates and empty patterns are ignored.
func (m *Matcher) Add(pattern Topic) {
	if pattern == "" {
		return
	}
	node := m.root
	for _, seg := range pattern.Segments() {
		child := node.children[seg]
		if child == nil {
			child = newTrieNode()
			node.children[seg] = child
		}
		node = child
	}
	if !node.terminal {
		node.terminal = true
		m.count++
	}
}

// Remove removes a pattern if present.
func (m *Matcher) Remove(pattern Topic) {
	if pattern == "" {
		return
	}
	node := m.root
	for _, seg := range pattern.Segments() {
		node = node.children[seg]
		if node == nil {
			return
		}
	}
	if node.terminal {
		node.terminal = false
		m.count--
	}
}

// Has returns true if the exact pattern was added.
func (m *Matcher) Has(pattern Topic) bool {
	if pattern == "" {
		return false
	}
	node := m.root
	for _, seg := range pattern.Segments() {
		node = node.children[seg]
		if node == nil {
			return false
		}
	}
	return node.terminal
}

// Match returns true if any pattern matches the concrete topic.
func (m *Matcher) Match(t Topic) bool {
	if t == "" || m.count == 0 {
		return false
	}
	return m.match(m.root, t.Segments(), 0)
}

func (m *Matcher) match(node *trieNode, segments []string, depth int) bool {
	if depth == len(segments) {
		if node.terminal {
			return true
		}
		// A trailing ** matches zero additional segments.
		if child := node.children[WildcardMulti]; child != nil {
			return m.match(child, segments, depth)
		}
		return false
	}

	if child := node.children[segments[depth]]; child != nil && m.match(child, segments, depth+1) {
		return true
	}
	if child := node.children[WildcardSingle]; child != nil && m.match(child, segments, depth+1) {
		return true
	}
	if child := node.children[WildcardMulti]; child != nil {
		for i := depth; i <= len(segments); i++ {
			if m.match(child, segments, i) {
				return true
			}
		}
	}
	return false
}

// Count returns the number of patterns held.
func (m *Matcher) Count() int {
	return m.count
}

// Patterns returns all patterns held, in no particular order.
func (m *Matcher) Patterns() []Topic {
	var out []Topic
	m.collect(m.root, nil, &out)
	return out
}

func (m *Matcher) collect(node *trieNode, prefix []string, out *[]Topic) {
	if node.terminal {
		*out = append(*out, Join(prefix...))
	}
	for seg, child := range node.children {
		m.collect(child, append(append([]string(nil), prefix...), seg), out)
	}
}
