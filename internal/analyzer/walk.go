package analyzer

import (
	"sort"

	"bennypowers.dev/lupls/internal/program"
)

// WalkComponents returns c followed by its super class components, each
// exactly once, nearest first.
func (a *Analyzer) WalkComponents(c *Component) []*Component {
	var out []*Component
	visited := make(map[classKey]bool)
	stack := []*Component{c}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		key := classKey{cur.File.Path, cur.Class}
		if visited[key] {
			continue
		}
		visited[key] = true
		out = append(out, cur)

		superRef, ok := a.ctx.Resolver.Supertype(cur.File, cur.Class)
		if !ok {
			continue
		}
		if super, ok := a.ComponentByDeclaration(superRef); ok {
			stack = append(stack, super)
		}
	}
	return out
}

// ComponentProperty finds name on c or the nearest super class declaring it.
func (a *Analyzer) ComponentProperty(c *Component, name string) (*Property, bool) {
	for _, com := range a.WalkComponents(c) {
		if p, ok := com.Properties[name]; ok {
			return p, true
		}
	}
	return nil, false
}

// ComponentEvent finds event name on c or its super classes.
func (a *Analyzer) ComponentEvent(c *Component, name string) (*Event, bool) {
	for _, com := range a.WalkComponents(c) {
		if e, ok := com.Events[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// SlotElement finds a slotElements entry on c or its super classes.
func (a *Analyzer) SlotElement(c *Component, name string) (*Property, bool) {
	for _, com := range a.WalkComponents(c) {
		if p, ok := com.SlotElements[name]; ok {
			return p, true
		}
	}
	return nil, false
}

// ComponentPropertiesForCompletion lists properties starting with prefix,
// nearest declaration winning. With publicOnly, non-public ones are skipped.
func (a *Analyzer) ComponentPropertiesForCompletion(c *Component, prefix string, publicOnly bool) []*Property {
	seen := make(map[string]bool)
	var out []*Property
	for _, com := range a.WalkComponents(c) {
		for _, p := range sortedProperties(com.Properties) {
			if seen[p.Name] || (publicOnly && !p.Public) || !hasPrefix(p.Name, prefix) {
				continue
			}
			seen[p.Name] = true
			out = append(out, p)
		}
	}
	return out
}

// ComponentEventsForCompletion lists events starting with prefix.
func (a *Analyzer) ComponentEventsForCompletion(c *Component, prefix string) []*Event {
	seen := make(map[string]bool)
	var out []*Event
	for _, com := range a.WalkComponents(c) {
		names := make([]string, 0, len(com.Events))
		for n := range com.Events {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			if seen[n] || !hasPrefix(n, prefix) {
				continue
			}
			seen[n] = true
			out = append(out, com.Events[n])
		}
	}
	return out
}

// SubPropertiesForCompletion lists slotElements entries starting with prefix.
func (a *Analyzer) SubPropertiesForCompletion(c *Component, prefix string) []*Property {
	seen := make(map[string]bool)
	var out []*Property
	for _, com := range a.WalkComponents(c) {
		for _, p := range sortedProperties(com.SlotElements) {
			if seen[p.Name] || !hasPrefix(p.Name, prefix) {
				continue
			}
			seen[p.Name] = true
			out = append(out, p)
		}
	}
	return out
}

func sortedProperties(m map[string]*Property) []*Property {
	out := make([]*Property, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ClassRef returns the declaration reference of c.
func (c *Component) ClassRef() program.ClassRef {
	return program.ClassRef{File: c.File, Class: c.Class}
}
