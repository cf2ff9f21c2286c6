// Package scene is a small retained SVG scene graph.
//
// Charts render into a tree of [Node] values rather than writing markup
// directly. Keeping the tree around lets later passes measure what was
// drawn ([GeometryMeasurer]), reconcile keyed children with enter and leave
// transitions ([TransitionGroup]) and serialize the final state, including
// SMIL animations, with [RenderSVG].
//
// Measurement follows the SVG getBBox contract: a node is measured in its
// own coordinate space, and only nodes attached to an <svg> document can be
// measured.
package scene
