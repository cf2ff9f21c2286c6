package histogram

// State tracks whether the layout accounts for the measured axes.
type State int

const (
	// Unadjusted charts have provisional scales. Only axes are painted.
	Unadjusted State = iota
	// Adjusted charts have final scales and paint bars.
	Adjusted
)

func (s State) String() string {
	if s == Adjusted {
		return "adjusted"
	}
	return "unadjusted"
}

func (c *Chart) setState(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug("chart state", "id", c.id, "from", c.state, "to", s)
	c.hooks().OnStateChange(c.id, c.state.String(), s.String())
	c.state = s
}
