package completedata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/lupls/internal/completedata"
)

func names(items []completedata.Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestControlFlowTags(t *testing.T) {
	all := completedata.ControlFlowTags("lu:")
	assert.Len(t, all, 11)
	assert.Equal(t, []string{"lu:else", "lu:elseif"}, names(completedata.ControlFlowTags("lu:else")))

	item, ok := completedata.ControlFlowTag("lu:keyed")
	require.True(t, ok)
	assert.Contains(t, item.Description, "regenerates")
}

func TestEvents(t *testing.T) {
	click, ok := completedata.DOMEvent("click")
	require.True(t, ok)
	assert.NotEmpty(t, click.Description)

	assert.Equal(t, []string{"hold:start", "hold:end"}, names(completedata.SimulatedEvents("hold")))
	_, ok = completedata.SimulatedEvent("tap")
	assert.True(t, ok)
}

func TestEventModifiers(t *testing.T) {
	click := names(completedata.EventModifiers("click", ""))
	assert.Contains(t, click, "prevent")
	assert.Contains(t, click, "left")
	assert.NotContains(t, click, "enter")

	key := names(completedata.EventModifiers("keydown", "e"))
	assert.Equal(t, []string{"enter", "escape"}, key)

	assert.Equal(t, []string{"stop"}, names(completedata.EventModifiers("scroll", "st")))
}

func TestStyleVocabulary(t *testing.T) {
	assert.Equal(t, []string{"px", "percent", "url"}, completedata.StyleUnitNames())
	assert.True(t, completedata.IsStyleUnit("px"))
	assert.False(t, completedata.IsStyleUnit("color"))

	assert.True(t, completedata.IsStyleProperty("color"))
	colo := names(completedata.StyleProperties("colo"))
	assert.Equal(t, []string{"color"}, colo)
}

func TestBooleanAttributes(t *testing.T) {
	onDiv := names(completedata.BooleanAttributes("", "div"))
	assert.Contains(t, onDiv, "hidden")
	assert.NotContains(t, onDiv, "checked")

	onInput := names(completedata.BooleanAttributes("CH", "input"))
	assert.Equal(t, []string{"checked"}, onInput)
}

func TestInternalBindings(t *testing.T) {
	b, ok := completedata.InternalBindingByClass("StyleBinding")
	require.True(t, ok)
	assert.Equal(t, "style", b.Name)

	_, ok = completedata.InternalBinding("transition")
	assert.True(t, ok)
	assert.Len(t, completedata.InternalBindings(), 6)
}
