package scene

// Child describes one keyed child of a TransitionGroup render.
type Child[P any] struct {
	Key   string
	Props P
}

// Hooks receive lifecycle callbacks from a TransitionGroup.
//
// WillEnter runs before a new node is added to the container. WillEnter and
// WillLeave must call done exactly once, possibly later. A node counts as
// entering until its enter done is called. A leaving node stays in the
// container until its done is called. A node
// re-rendered while leaving is kept and reported through DidUpdate; a
// late done for that earlier leave is then ignored.
type Hooks[P any] interface {
	// Create builds the node for a newly rendered key.
	Create(key string, props P) *Node
	WillEnter(n *Node, props P, done func())
	DidUpdate(n *Node, prev, next P)
	WillLeave(n *Node, props P, done func())
}

type groupEntry[P any] struct {
	key     string
	node    *Node
	props    P
	entering bool
	leaving  bool
	gen      int // bumped on every leave/enter so stale done calls are ignored
}

// TransitionGroup reconciles a keyed child list into a container node,
// running enter, update and leave transitions through its hooks.
type TransitionGroup[P any] struct {
	container *Node
	hooks     Hooks[P]
	entries   []*groupEntry[P]
	byKey     map[string]*groupEntry[P]
}

// NewTransitionGroup manages the children of container.
func NewTransitionGroup[P any](container *Node, hooks Hooks[P]) *TransitionGroup[P] {
	return &TransitionGroup[P]{
		container: container,
		hooks:     hooks,
		byKey:     make(map[string]*groupEntry[P]),
	}
}

// Container returns the managed node.
func (g *TransitionGroup[P]) Container() *Node { return g.container }

// Render reconciles the group against next. Keys present in next are
// created or updated in the given order; keys no longer present begin
// leaving and keep their relative position until removed.
func (g *TransitionGroup[P]) Render(next []Child[P]) {
	seen := make(map[string]bool, len(next))
	var entered []*groupEntry[P]
	var updated []struct {
		e    *groupEntry[P]
		prev P
	}

	order := make([]*groupEntry[P], 0, len(next))
	for _, c := range next {
		if seen[c.Key] {
			continue
		}
		seen[c.Key] = true
		e, ok := g.byKey[c.Key]
		if !ok {
			e = &groupEntry[P]{key: c.Key, node: g.hooks.Create(c.Key, c.Props), props: c.Props, entering: true}
			g.byKey[c.Key] = e
			entered = append(entered, e)
		} else {
			prev := e.props
			if e.leaving {
				e.leaving = false
				e.gen++
			}
			e.props = c.Props
			updated = append(updated, struct {
				e    *groupEntry[P]
				prev P
			}{e, prev})
		}
		order = append(order, e)
	}

	var leaving []*groupEntry[P]
	merged := mergeOrder(g.entries, order, seen)
	for _, e := range merged {
		if !seen[e.key] && !e.leaving {
			e.leaving = true
			e.entering = false
			e.gen++
			leaving = append(leaving, e)
		}
	}
	for _, e := range entered {
		gen := e.gen
		g.hooks.WillEnter(e.node, e.props, func() { g.entered(e, gen) })
	}
	g.entries = merged
	g.sync()

	for _, u := range updated {
		g.hooks.DidUpdate(u.e.node, u.prev, u.e.props)
	}
	for _, e := range leaving {
		gen := e.gen
		g.hooks.WillLeave(e.node, e.props, func() { g.remove(e, gen) })
	}
}

// Len returns the number of managed children, including leaving ones.
func (g *TransitionGroup[P]) Len() int { return len(g.entries) }

// Leaving returns the number of children still running a leave transition.
func (g *TransitionGroup[P]) Leaving() int {
	n := 0
	for _, e := range g.entries {
		if e.leaving {
			n++
		}
	}
	return n
}

// Entering returns the number of children still running an enter transition.
func (g *TransitionGroup[P]) Entering() int {
	n := 0
	for _, e := range g.entries {
		if e.entering {
			n++
		}
	}
	return n
}

// Node returns the node for key, if it is managed.
func (g *TransitionGroup[P]) Node(key string) (*Node, bool) {
	e, ok := g.byKey[key]
	if !ok {
		return nil, false
	}
	return e.node, true
}

// Nodes returns the managed nodes in container order.
func (g *TransitionGroup[P]) Nodes() []*Node {
	out := make([]*Node, len(g.entries))
	for i, e := range g.entries {
		out[i] = e.node
	}
	return out
}

func (g *TransitionGroup[P]) entered(e *groupEntry[P], gen int) {
	if e.gen == gen {
		e.entering = false
	}
}

func (g *TransitionGroup[P]) remove(e *groupEntry[P], gen int) {
	if e.gen != gen || !e.leaving {
		return
	}
	for i, x := range g.entries {
		if x == e {
			g.entries = append(g.entries[:i], g.entries[i+1:]...)
			break
		}
	}
	delete(g.byKey, e.key)
	e.node.Detach()
}

func (g *TransitionGroup[P]) sync() {
	g.container.SetChildren(g.Nodes())
}

// mergeOrder interleaves entries that are no longer rendered (or already
// leaving) with the new order, keeping each one after the rendered entry
// that preceded it before.
func mergeOrder[P any](prev, next []*groupEntry[P], seen map[string]bool) []*groupEntry[P] {
	trailing := make(map[*groupEntry[P]][]*groupEntry[P])
	var head []*groupEntry[P]
	var anchor *groupEntry[P]
	for _, e := range prev {
		if seen[e.key] {
			anchor = e
			continue
		}
		if anchor == nil {
			head = append(head, e)
		} else {
			trailing[anchor] = append(trailing[anchor], e)
		}
	}

	out := make([]*groupEntry[P], 0, len(next)+len(prev))
	out = append(out, head...)
	for _, e := range next {
		out = append(out, e)
		out = append(out, trailing[e]...)
	}
	return out
}
