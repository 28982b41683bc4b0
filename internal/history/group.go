package history

// BeginGroup starts collecting pushed commands into one undo unit. Nested
// calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupCmds = nil
}

// EndGroup pushes the collected commands as a Compound.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.grouping {
		return
	}
	h.grouping = false
	cmds := h.groupCmds
	h.groupCmds = nil
	switch len(cmds) {
	case 0:
	case 1:
		h.pushLocked(cmds[0])
	default:
		h.pushLocked(&Compound{Name: h.groupName, Commands: cmds})
	}
}

// CancelGroup drops the collected commands. Their effects stay applied.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.grouping = false
	h.groupCmds = nil
}

// GroupScope groups commands until End is called:
//
//	defer h.GroupScope("paste").End()
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a group.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{history: h, active: true}
}

// End closes the group. Later calls do nothing.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}
