package analyzer

import (
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/program"
)

const slotElementsMember = "slotElements"

// newComponent builds the record of cls without looking at super classes,
// except for event interfaces passed up the extends chain.
func newComponent(r *program.Resolver, file *program.SourceFile, cls *ts.Class) *Component {
	c := &Component{
		Name:         cls.Name,
		NameSpan:     cls.NameSpan,
		Description:  cls.Description,
		File:         file,
		Class:        cls,
		Properties:   make(map[string]*Property),
		Events:       make(map[string]*Event),
		SlotElements: make(map[string]*Property),
	}
	for _, m := range cls.Members {
		if p := memberProperty(file, m); p != nil {
			if _, dup := c.Properties[p.Name]; !dup {
				c.Properties[p.Name] = p
			}
		}
	}
	if m := cls.Member(slotElementsMember); m != nil {
		for _, sig := range m.TypeLiteral {
			c.SlotElements[sig.Name] = &Property{
				Name:        sig.Name,
				NameSpan:    sig.NameSpan,
				Type:        sig.Type,
				Description: sig.Description,
				Public:      true,
				File:        file,
			}
		}
	}
	for _, ev := range componentEvents(r, file, cls) {
		if _, dup := c.Events[ev.Name]; !dup {
			c.Events[ev.Name] = ev
		}
	}
	return c
}

// memberProperty accepts fields that are neither readonly nor static, and
// non-static setters.
func memberProperty(file *program.SourceFile, m *ts.Member) *Property {
	if m.Static {
		return nil
	}
	switch m.Kind {
	case ts.MemberField:
		if m.Readonly {
			return nil
		}
	case ts.MemberSetter:
	default:
		return nil
	}
	return &Property{
		Name:        m.Name,
		NameSpan:    m.NameSpan,
		Type:        m.Type,
		Description: m.Description,
		Public:      m.Access == "public",
		File:        file,
	}
}

// componentEvents resolves the first type argument of every class in the
// extends chain, like `extends Component<ButtonEvents>`, and expands it to
// the interface members it names.
func componentEvents(r *program.Resolver, file *program.SourceFile, cls *ts.Class) []*Event {
	var events []*Event
	for _, ref := range r.Ancestors(file, cls) {
		if len(ref.Class.ExtendsTypeArgs) == 0 {
			continue
		}
		for _, p := range r.Properties(ref.File, ref.Class.ExtendsTypeArgs[0]) {
			events = append(events, &Event{
				Name:        p.Name,
				NameSpan:    p.NameSpan,
				Type:        p.Type,
				Description: p.Description,
				File:        p.File,
				Owner:       p.Owner,
			})
		}
	}
	return events
}
