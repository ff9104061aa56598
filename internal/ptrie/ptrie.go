// Package ptrie decodes packed tries and answers prefix-completion queries.
//
// The packed form is a DAWG serialized as text. Nodes are separated by ';'.
// The first nodes may be symbol definitions "X:Y", naming frequently shared
// nodes. A node that starts with '!' ends a key. The rest of a node is a list
// of edges, each a label followed by a reference: ',' or the end of the node
// means the label itself ends a key, a base-36 code points at a child node.
//
//	hao,ni0;!n0;!g
//
// holds the keys "hao", "ni", "nin" and "ning".
package ptrie

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	nodeSep     = ";"
	terminalSep = ','
	terminalTag = '!'
	symbolSep   = ":"
)

// ErrMalformed is returned for packed input that does not describe a trie.
var ErrMalformed = errors.New("malformed packed trie")

type edge struct {
	label rune
	to    int
}

type node struct {
	edges []edge
	end   bool
}

// Trie is an immutable prefix index. It is safe for concurrent use.
type Trie struct {
	nodes []node
}

// Load reads a packed trie from path.
func Load(path string) (*Trie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read packed trie: %w", err)
	}
	t, err := Decode(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return t, nil
}

// Decode rebuilds the node and edge structure from its packed form.
// Multi-character labels are expanded into chains of single-rune edges.
func Decode(packed string) (*Trie, error) {
	if packed == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	parts := strings.Split(packed, nodeSep)
	syms, err := parseSymbols(parts)
	if err != nil {
		return nil, err
	}
	parts = parts[len(syms):]
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no nodes after symbol table", ErrMalformed)
	}

	d := decoder{
		trie:   &Trie{nodes: make([]node, len(parts), len(parts)*2)},
		syms:   syms,
		packed: len(parts),
	}
	for i, body := range parts {
		if err := d.decodeNode(i, body); err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrMalformed, i, err)
		}
	}
	for i := range d.trie.nodes {
		edges := d.trie.nodes[i].edges
		sort.Slice(edges, func(a, b int) bool { return edges[a].label < edges[b].label })
	}
	if err := d.trie.checkAcyclic(); err != nil {
		return nil, err
	}
	return d.trie, nil
}

func parseSymbols(parts []string) ([]int, error) {
	var syms []int
	for _, part := range parts {
		name, value, ok := strings.Cut(part, symbolSep)
		if !ok {
			break
		}
		idx, err := fromAlphaCode(name)
		if err != nil {
			return nil, fmt.Errorf("%w: symbol %q: %v", ErrMalformed, part, err)
		}
		if idx != len(syms) {
			return nil, fmt.Errorf("%w: symbol %q out of order, expected index %d", ErrMalformed, name, len(syms))
		}
		target, err := fromAlphaCode(value)
		if err != nil {
			return nil, fmt.Errorf("%w: symbol %q: %v", ErrMalformed, part, err)
		}
		syms = append(syms, target)
	}
	return syms, nil
}

type decoder struct {
	trie   *Trie
	syms   []int
	packed int
}

func (d *decoder) decodeNode(idx int, body string) error {
	if body != "" && body[0] == terminalTag {
		d.trie.nodes[idx].end = true
		body = body[1:]
	}
	pos := 0
	for pos < len(body) {
		start := pos
		for pos < len(body) && isLabelByte(body[pos]) {
			pos++
		}
		label := body[start:pos]
		if label == "" {
			return fmt.Errorf("unexpected %q at offset %d", body[pos], pos)
		}

		switch {
		case pos == len(body):
			if err := d.addPath(idx, label, -1); err != nil {
				return err
			}
		case body[pos] == terminalSep:
			pos++
			if err := d.addPath(idx, label, -1); err != nil {
				return err
			}
		default:
			refStart := pos
			for pos < len(body) && isRefByte(body[pos]) {
				pos++
			}
			if refStart == pos {
				return fmt.Errorf("unexpected %q at offset %d", body[pos], pos)
			}
			target, err := d.resolve(body[refStart:pos], idx)
			if err != nil {
				return err
			}
			if err := d.addPath(idx, label, target); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) resolve(ref string, from int) (int, error) {
	code, err := fromAlphaCode(ref)
	if err != nil {
		return 0, err
	}
	var target int
	if code < len(d.syms) {
		target = d.syms[code]
	} else {
		target = from + code - len(d.syms) + 1
	}
	if target < 0 || target >= d.packed {
		return 0, fmt.Errorf("reference %q points at node %d of %d", ref, target, d.packed)
	}
	return target, nil
}

// addPath adds label below node from. A negative target makes the last rune
// end in a fresh end-of-key leaf instead of linking to a packed node.
func (d *decoder) addPath(from int, label string, target int) error {
	runes := []rune(label)
	cur := from
	for i, r := range runes {
		if d.trie.child(cur, r) >= 0 {
			return fmt.Errorf("duplicate edge %q", r)
		}
		last := i == len(runes)-1
		next := target
		if !last || target < 0 {
			next = len(d.trie.nodes)
			d.trie.nodes = append(d.trie.nodes, node{end: last})
		}
		d.trie.nodes[cur].edges = append(d.trie.nodes[cur].edges, edge{label: r, to: next})
		cur = next
	}
	return nil
}

func isLabelByte(c byte) bool {
	switch c {
	case ';', ',', ':', '!':
		return false
	}
	return !isRefByte(c)
}

func (t *Trie) checkAcyclic() error {
	const (
		unseen = iota
		active
		done
	)
	state := make([]uint8, len(t.nodes))
	var visit func(int) error
	visit = func(n int) error {
		switch state[n] {
		case active:
			return fmt.Errorf("%w: cycle through node %d", ErrMalformed, n)
		case done:
			return nil
		}
		state[n] = active
		for _, e := range t.nodes[n].edges {
			if err := visit(e.to); err != nil {
				return err
			}
		}
		state[n] = done
		return nil
	}
	for n := range t.nodes {
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}

func (t *Trie) child(n int, r rune) int {
	edges := t.nodes[n].edges
	for _, e := range edges {
		if e.label == r {
			return e.to
		}
	}
	return -1
}

// find returns the node reached by spelling s from the root, or -1.
func (t *Trie) find(s string) int {
	n := 0
	for _, r := range s {
		n = t.child(n, r)
		if n < 0 {
			return -1
		}
	}
	return n
}

// Contains reports whether key is a complete key of the trie.
func (t *Trie) Contains(key string) bool {
	n := t.find(key)
	return n >= 0 && t.nodes[n].end
}

// Completions returns every key that starts with prefix, prefix included when
// it is a key itself. Keys come out in lexicographic rune order.
func (t *Trie) Completions(prefix string) []string {
	n := t.find(prefix)
	if n < 0 {
		return []string{}
	}
	keys := []string{}
	path := []rune(prefix)
	var walk func(int)
	walk = func(n int) {
		if t.nodes[n].end {
			keys = append(keys, string(path))
		}
		for _, e := range t.nodes[n].edges {
			path = append(path, e.label)
			walk(e.to)
			path = path[:len(path)-1]
		}
	}
	walk(n)
	return keys
}

// NodeCount returns the number of decoded nodes.
func (t *Trie) NodeCount() int {
	return len(t.nodes)
}
