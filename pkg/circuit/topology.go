package circuit

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// levelize assigns a level to each wire and records a topological gate
// order. Primary inputs are level 0, and levels increase toward outputs.
// Gates left over once no more become ready sit on or behind a cycle.
func (n *Netlist) levelize() error {
	pending := make(map[*Gate]int, len(n.Gates))
	queue := make([]*Gate, 0, len(n.Gates))
	for _, g := range n.Gates {
		count := 0
		for _, in := range g.Inputs {
			if n.Wires[in].Driver != nil {
				count++
			}
		}
		pending[g] = count
		if count == 0 {
			queue = append(queue, g)
		}
	}

	n.order = make([]*Gate, 0, len(n.Gates))
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]
		n.order = append(n.order, g)

		level := 0
		for _, in := range g.Inputs {
			if l := n.Wires[in].Level; l > level {
				level = l
			}
		}
		out := n.Wires[g.Output]
		out.Level = level + 1
		if out.Level > n.maxLevel {
			n.maxLevel = out.Level
		}

		for _, next := range out.Fanout {
			pending[next]--
			if pending[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(n.order) == len(n.Gates) {
		return nil
	}
	cycle := n.findCycle(pending)
	return errors.Wrapf(ErrCyclicDependency, "%s", strings.Join(cycle, " -> "))
}

// findCycle walks backwards from an unresolved gate through unresolved
// drivers until a wire repeats, and returns that loop by name.
func (n *Netlist) findCycle(pending map[*Gate]int) []string {
	var start *Gate
	for _, g := range n.Gates {
		if pending[g] > 0 {
			start = g
			break
		}
	}

	seen := make(map[WireID]int)
	var path []WireID
	g := start
	for g != nil {
		if at, ok := seen[g.Output]; ok {
			loop := path[at:]
			names := make([]string, 0, len(loop)+1)
			for i := len(loop) - 1; i >= 0; i-- {
				names = append(names, n.Wires[loop[i]].Name)
			}
			return append(names, names[0])
		}
		seen[g.Output] = len(path)
		path = append(path, g.Output)

		var next *Gate
		for _, in := range g.Inputs {
			if d := n.Wires[in].Driver; d != nil && pending[d] > 0 {
				next = d
				break
			}
		}
		g = next
	}
	return nil
}

// Levelized returns the gates in a topological order. The scheduler does
// not rely on it; it is used by consumers that build derived circuits.
func (n *Netlist) Levelized() []*Gate {
	return n.order
}

// LevelMap groups wire names by logic level, each group sorted by name.
func (n *Netlist) LevelMap() [][]string {
	levels := make([][]string, n.maxLevel+1)
	for _, w := range n.Wires {
		levels[w.Level] = append(levels[w.Level], w.Name)
	}
	for _, names := range levels {
		sort.Strings(names)
	}
	return levels
}
