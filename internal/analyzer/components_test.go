package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/lupls/internal/analyzer"
)

func propertyNames(ps []*analyzer.Property) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestWalkComponentsVisitsEachOnce(t *testing.T) {
	_, a := newProject(t)

	button := a.ComponentsByName("Button")[0]
	assert.Equal(t, []string{"Button", "Base"}, componentNames(a.WalkComponents(button)))

	// Card reaches Base through a re-exporting index, Button directly. Both
	// resolve to the same declaration.
	card := a.ComponentsByName("Card")[0]
	walked := a.WalkComponents(card)
	assert.Equal(t, []string{"Card", "Base"}, componentNames(walked))
	assert.Same(t, a.WalkComponents(button)[1], walked[1])
}

func TestComponentProperties(t *testing.T) {
	_, a := newProject(t)
	button := a.ComponentsByName("Button")[0]

	p, ok := a.ComponentProperty(button, "size")
	require.True(t, ok)
	assert.Equal(t, "'small' | 'large'", p.Type, "nearest declaration wins")

	p, ok = a.ComponentProperty(button, "label")
	require.True(t, ok)
	assert.Equal(t, "string", p.Type)

	_, ok = a.ComponentProperty(button, "id")
	assert.False(t, ok, "readonly fields are not properties")
	_, ok = a.ComponentProperty(button, "count")
	assert.False(t, ok, "static fields are not properties")

	assert.Equal(t, []string{"size", "slotElements", "label"},
		propertyNames(a.ComponentPropertiesForCompletion(button, "", true)))
	assert.Equal(t, []string{"label"},
		propertyNames(a.ComponentPropertiesForCompletion(button, "l", true)))
	assert.Contains(t,
		propertyNames(a.ComponentPropertiesForCompletion(button, "", false)), "secret")

	assert.Equal(t, []string{"icon"}, propertyNames(a.SubPropertiesForCompletion(button, "")))
	_, ok = a.SlotElement(button, "icon")
	assert.True(t, ok)
}

func TestComponentEvents(t *testing.T) {
	_, a := newProject(t)
	button := a.ComponentsByName("Button")[0]

	var names []string
	for _, e := range a.ComponentEventsForCompletion(button, "") {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"click", "open", "connected"}, names)

	e, ok := a.ComponentEvent(button, "open")
	require.True(t, ok)
	assert.Equal(t, "BaseEvents", e.Owner)

	card := a.ComponentsByName("Card")[0]
	_, ok = a.ComponentEvent(card, "click")
	assert.False(t, ok)
}
