// Package completedata holds the static vocabulary of lupos templates:
// control flow tags, events, modifiers, bindings and attributes.
package completedata

import (
	"embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Item is one named entry with a description.
type Item struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Elements    []string `yaml:"elements,omitempty"`
}

// Binding is a binding class lupos.js ships.
type Binding struct {
	Name        string `yaml:"name"`
	ClassName   string `yaml:"className"`
	Description string `yaml:"description"`
}

type modifiers struct {
	Style []Item `yaml:"style"`
	Event []Item `yaml:"event"`
	Mouse []Item `yaml:"mouse"`
	Key   []Item `yaml:"key"`
}

type vocabulary struct {
	controlFlow     []Item
	domEvents       []Item
	simulatedEvents []Item
	booleanAttrs    []Item
	bindings        []Binding
	styleProperties []string
	modifiers       modifiers
}

var (
	vocabOnce sync.Once
	vocab     *vocabulary
)

func data() *vocabulary {
	vocabOnce.Do(func() {
		v := &vocabulary{}
		mustDecode("control-flow-tags.yaml", &v.controlFlow)
		mustDecode("dom-events.yaml", &v.domEvents)
		mustDecode("simulated-events.yaml", &v.simulatedEvents)
		mustDecode("boolean-attributes.yaml", &v.booleanAttrs)
		mustDecode("bindings.yaml", &v.bindings)
		mustDecode("style-properties.yaml", &v.styleProperties)
		mustDecode("modifiers.yaml", &v.modifiers)
		vocab = v
	})
	return vocab
}

// mustDecode panics since the data is embedded at build time.
func mustDecode(name string, out any) {
	raw, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		panic(fmt.Sprintf("completedata: %v", err))
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		panic(fmt.Sprintf("completedata: %s: %v", name, err))
	}
}

func filter(items []Item, prefix string) []Item {
	var out []Item
	for _, it := range items {
		if strings.HasPrefix(it.Name, prefix) {
			out = append(out, it)
		}
	}
	return out
}

func find(items []Item, name string) (Item, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// ControlFlowTags lists lu: tags starting with prefix.
func ControlFlowTags(prefix string) []Item { return filter(data().controlFlow, prefix) }

func ControlFlowTag(name string) (Item, bool) { return find(data().controlFlow, name) }

// DOMEvents lists native element events starting with prefix.
func DOMEvents(prefix string) []Item { return filter(data().domEvents, prefix) }

func DOMEvent(name string) (Item, bool) { return find(data().domEvents, name) }

// SimulatedEvents lists gesture events starting with prefix.
func SimulatedEvents(prefix string) []Item { return filter(data().simulatedEvents, prefix) }

func SimulatedEvent(name string) (Item, bool) { return find(data().simulatedEvents, name) }

// StyleModifiers lists the unit modifiers allowed second in `:style.name.unit`.
func StyleModifiers(prefix string) []Item { return filter(data().modifiers.Style, prefix) }

// IsStyleUnit reports whether name is a `:style` unit modifier.
func IsStyleUnit(name string) bool {
	_, ok := find(data().modifiers.Style, name)
	return ok
}

// StyleUnitNames lists the unit modifiers in declaration order.
func StyleUnitNames() []string {
	var names []string
	for _, it := range data().modifiers.Style {
		names = append(names, it.Name)
	}
	return names
}

// StyleProperties lists CSS property names starting with prefix.
func StyleProperties(prefix string) []Item {
	var out []Item
	for _, p := range data().styleProperties {
		if strings.HasPrefix(p, prefix) {
			out = append(out, Item{Name: p})
		}
	}
	return out
}

func IsStyleProperty(name string) bool {
	return slices.Contains(data().styleProperties, name)
}

func isMouseEvent(event string) bool {
	switch event {
	case "click", "dblclick", "auxclick", "contextmenu":
		return true
	}
	return strings.HasPrefix(event, "mouse") || strings.HasPrefix(event, "pointer")
}

func isKeyEvent(event string) bool {
	return strings.HasPrefix(event, "key")
}

// EventModifiers lists the modifiers available for event, starting with
// prefix. Button modifiers apply to mouse events and key modifiers to
// keyboard events.
func EventModifiers(event, prefix string) []Item {
	v := data()
	items := slices.Clone(v.modifiers.Event)
	switch {
	case isMouseEvent(event):
		items = append(items, v.modifiers.Mouse...)
	case isKeyEvent(event):
		items = append(items, v.modifiers.Key...)
	}
	return filter(items, prefix)
}

// EventModifier describes modifier name for event.
func EventModifier(event, name string) (Item, bool) {
	return find(EventModifiers(event, ""), name)
}

// BooleanAttributes lists boolean attributes valid on tag, starting with
// prefix. Global attributes match every tag.
func BooleanAttributes(prefix, tag string) []Item {
	lower := strings.ToLower(prefix)
	var out []Item
	for _, it := range data().booleanAttrs {
		if len(it.Elements) > 0 && !slices.Contains(it.Elements, tag) {
			continue
		}
		if strings.HasPrefix(it.Name, lower) {
			out = append(out, it)
		}
	}
	return out
}

func BooleanAttribute(name string) (Item, bool) { return find(data().booleanAttrs, name) }

// InternalBindings lists the bindings lupos.js provides.
func InternalBindings() []Binding { return slices.Clone(data().bindings) }

// InternalBinding finds an internal binding by its template name.
func InternalBinding(name string) (Binding, bool) {
	for _, b := range data().bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// InternalBindingByClass finds an internal binding by its class name, like
// ClassBinding.
func InternalBindingByClass(className string) (Binding, bool) {
	for _, b := range data().bindings {
		if b.ClassName == className {
			return b, true
		}
	}
	return Binding{}, false
}
