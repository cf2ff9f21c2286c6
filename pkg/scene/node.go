package scene

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Attr is a single element attribute.
type Attr struct {
	Name, Value string
}

// Animation is a single-attribute transition attached to a node. It is
// serialized as a SMIL <animate> element.
type Animation struct {
	Attr     string
	From, To float64
	Duration time.Duration
	// Spline holds cubic-bezier control points (x1, y1, x2, y2) for the
	// easing curve. The zero value and {0, 0, 1, 1} mean linear.
	Spline [4]float64
}

// Linear reports whether the animation uses a linear timing curve.
func (a Animation) Linear() bool {
	return a.Spline == [4]float64{} || a.Spline == [4]float64{0, 0, 1, 1}
}

// Node is an element of a retained SVG scene.
//
// Nodes form a tree rooted at an <svg> document. Attributes keep their
// insertion order so serialized output is stable.
type Node struct {
	Tag      string
	Text     string // character data, used by <text> and <style>
	attrs    []Attr
	children []*Node
	parent   *Node
	anims    []Animation
}

// New creates a detached node with the given tag and attributes, given as
// name/value pairs.
func New(tag string, kv ...string) *Node {
	n := &Node{Tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Set(kv[i], kv[i+1])
	}
	return n
}

// NewDocument creates an <svg> root of the given size.
func NewDocument(width, height float64) *Node {
	doc := New("svg", "xmlns", "http://www.w3.org/2000/svg")
	doc.SetFloat("width", width)
	doc.SetFloat("height", height)
	return doc
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the node's attributes in insertion order.
func (n *Node) Attrs() []Attr {
	return append([]Attr(nil), n.attrs...)
}

// Set assigns an attribute, keeping its original position if it exists.
func (n *Node) Set(name, value string) *Node {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return n
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	return n
}

// Unset removes an attribute.
func (n *Node) Unset(name string) *Node {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return n
		}
	}
	return n
}

// Float returns the named attribute parsed as a number. Missing or
// non-numeric attributes (including unit suffixes other than px) read as 0.
func (n *Node) Float(name string) float64 {
	v, ok := n.Attr(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil {
		return 0
	}
	return f
}

// SetFloat assigns a numeric attribute. The value round-trips exactly
// through Float.
func (n *Node) SetFloat(name string, v float64) {
	n.Set(name, formatFloat(v))
}

// SetTranslate sets transform="translate(x,y)".
func (n *Node) SetTranslate(x, y float64) *Node {
	return n.Set("transform", fmt.Sprintf("translate(%s,%s)", formatFloat(x), formatFloat(y)))
}

// Translate returns the translation of the node's transform attribute.
// Only translate(...) transforms are understood; anything else reads as
// no translation.
func (n *Node) Translate() (x, y float64) {
	v, ok := n.Attr("transform")
	if !ok {
		return 0, 0
	}
	return parseTranslate(v)
}

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the node's parent, or nil for a detached or root node.
func (n *Node) Parent() *Node { return n.parent }

// Root walks up to the topmost ancestor.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Attached reports whether the node belongs to an <svg> document.
func (n *Node) Attached() bool {
	return n != nil && n.Root().Tag == "svg"
}

// Append adds child as the last child of n, detaching it from any previous
// parent first.
func (n *Node) Append(child *Node) *Node {
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// Insert adds child at index i (clamped to the valid range).
func (n *Node) Insert(i int, child *Node) *Node {
	child.Detach()
	child.parent = n
	i = max(0, min(i, len(n.children)))
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	return child
}

// Detach removes n from its parent.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Clear removes all children.
func (n *Node) Clear() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// SetChildren replaces the child list, reparenting as needed.
func (n *Node) SetChildren(children []*Node) {
	next := make([]*Node, 0, len(children))
	for _, c := range children {
		if c.parent != n {
			c.Detach()
		}
		next = append(next, c)
	}
	for _, c := range n.children {
		c.parent = nil
	}
	for _, c := range next {
		c.parent = n
	}
	n.children = next
}

// FindID returns the first node in the subtree with the given id.
func (n *Node) FindID(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if v, ok := c.Attr("id"); ok && v == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node in the subtree (including n) matching pred,
// in document order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if pred(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// HasClass reports whether the node's class attribute contains class.
func (n *Node) HasClass(class string) bool {
	v, _ := n.Attr("class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Walk visits the subtree in document order. Returning false from fn stops
// the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// SetAnimation attaches an animation, replacing any existing animation of
// the same attribute.
func (n *Node) SetAnimation(a Animation) {
	for i := range n.anims {
		if n.anims[i].Attr == a.Attr {
			n.anims[i] = a
			return
		}
	}
	n.anims = append(n.anims, a)
}

// ClearAnimation removes the animation of attr, if any.
func (n *Node) ClearAnimation(attr string) {
	for i := range n.anims {
		if n.anims[i].Attr == attr {
			n.anims = append(n.anims[:i], n.anims[i+1:]...)
			return
		}
	}
}

// ClearAnimations removes every animation in the subtree.
func (n *Node) ClearAnimations() {
	n.Walk(func(c *Node) bool {
		c.anims = nil
		return true
	})
}

// Animations returns the node's animations.
func (n *Node) Animations() []Animation { return n.anims }

func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseTranslate(v string) (x, y float64) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "translate(") || !strings.HasSuffix(v, ")") {
		return 0, 0
	}
	args := strings.FieldsFunc(v[len("translate("):len(v)-1], func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(args) > 0 {
		x, _ = strconv.ParseFloat(args[0], 64)
	}
	if len(args) > 1 {
		y, _ = strconv.ParseFloat(args[1], 64)
	}
	return x, y
}
