package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/lupls/internal/service"
)

// complete returns the entries at the cursor of markup. With foo in extra,
// the app imports Foo.
func complete(t *testing.T, markup string, extra map[string]string) []service.CompletionEntry {
	t.Helper()
	text := app(markup)
	if _, ok := extra["/proj/src/foo.ts"]; ok {
		text = "import {Foo} from './foo'\n" + text
	}
	src, at := cursor(t, text)
	files := map[string]string{appPath: src}
	for k, v := range extra {
		files[k] = v
	}
	svc := newService(t, files)
	entries, err := svc.Completions(appPath, at)
	require.NoError(t, err)
	return entries
}

func TestStyleModifierCompletion(t *testing.T) {
	t.Run("first modifier is a property", func(t *testing.T) {
		entries := complete(t, `<div :style.colo|></div>`, nil)
		got := labels(entries)
		assert.Contains(t, got, "color")
		assert.NotContains(t, got, "px")
		assert.NotContains(t, got, "percent")
		for _, e := range entries {
			assert.Equal(t, service.LookupStyleProperty, e.Kind)
		}
		color := entry(t, entries, "color")
		assert.Equal(t, "color", color.InsertText)
	})

	t.Run("second modifier is a unit", func(t *testing.T) {
		entries := complete(t, `<div :style.width.p|></div>`, nil)
		assert.ElementsMatch(t, []string{"px", "percent"}, labels(entries))
		assert.Equal(t, "px=", entry(t, entries, "px").InsertText)
	})

	t.Run("third modifier has nothing", func(t *testing.T) {
		assert.Empty(t, complete(t, `<div :style.width.px.|></div>`, nil))
	})
}

func TestCompletions(t *testing.T) {
	foo := map[string]string{"/proj/src/foo.ts": fooSource}

	tests := []struct {
		name   string
		markup string
		extra  map[string]string
		want   []string
		absent []string
		insert map[string]string
	}{
		{
			name:   "empty tag offers control flow",
			markup: `<|`,
			want:   []string{"lu:if", "lu:for"},
		},
		{
			name:   "control flow prefix",
			markup: `<lu:e|`,
			want:   []string{"lu:else", "lu:elseif"},
			absent: []string{"lu:if"},
		},
		{
			name:   "internal bindings",
			markup: `<div :|></div>`,
			want:   []string{":class", ":style", ":ref"},
			insert: map[string]string{":class": ":class", ":ref": ":ref="},
		},
		{
			name:   "project bindings",
			markup: `<div :to|></div>`,
			extra:  map[string]string{"/proj/src/tooltip.ts": tooltipSource},
			want:   []string{":tooltip"},
			insert: map[string]string{":tooltip": ":tooltip="},
		},
		{
			name:   "dom and simulated events",
			markup: `<div @t|></div>`,
			want:   []string{"@tap", "@timeupdate"},
			insert: map[string]string{"@tap": "@tap="},
		},
		{
			name:   "event modifiers",
			markup: `<div @click.pre|></div>`,
			want:   []string{"prevent"},
		},
		{
			name:   "key modifiers only for key events",
			markup: `<div @click.ent|></div>`,
			absent: []string{"enter"},
		},
		{
			name:   "boolean attributes",
			markup: `<button ?dis|></button>`,
			want:   []string{"?disabled"},
			insert: map[string]string{"?disabled": "?disabled="},
		},
		{
			name:   "boolean attributes respect the element",
			markup: `<div ?dis|></div>`,
			absent: []string{"?disabled"},
		},
		{
			name:   "component properties",
			markup: `<Foo .si|></Foo>`,
			extra:  foo,
			want:   []string{".size"},
		},
		{
			name:   "property literal values",
			markup: `<Foo .size="l|"></Foo>`,
			extra:  foo,
			want:   []string{"large"},
			absent: []string{"small"},
		},
		{
			name:   "component events",
			markup: `<Foo @@|></Foo>`,
			extra:  foo,
			want:   []string{"@@open", "@@connected"},
			absent: []string{"@click"},
		},
		{
			name:   "component and dom events",
			markup: `<Foo @|></Foo>`,
			extra:  foo,
			want:   []string{"@@open", "@click"},
		},
		{
			name:   "slot names of the closest component",
			markup: `<Foo><span :slot="|"></span></Foo>`,
			extra:  foo,
			want:   []string{"icon"},
		},
		{
			name:   "icons",
			markup: `<Icon .type="cl|" />`,
			want:   []string{"close"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extra := map[string]string{}
			for k, v := range tt.extra {
				extra[k] = v
			}
			extra["/proj/src/icons.ts"] = "import close from './close.svg'\nexport {close}\n"
			entries := complete(t, tt.markup, extra)
			got := labels(entries)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, got, a)
			}
			for label, insert := range tt.insert {
				assert.Equal(t, insert, entry(t, entries, label).InsertText)
			}
		})
	}
}

func TestCompletionReplacementSpan(t *testing.T) {
	src, at := cursor(t, app(`<div :cla|ss></div>`))
	svc := newService(t, map[string]string{appPath: src})
	entries, err := svc.Completions(appPath, at)
	require.NoError(t, err)
	class := entry(t, entries, ":class")
	start := at - len(":cla")
	assert.Equal(t, start, class.ReplacementSpan.Start)
	assert.Equal(t, start+len(":class"), class.ReplacementSpan.End)
}

func TestCompletionOutsideTemplate(t *testing.T) {
	svc := newService(t, map[string]string{appPath: app("<div></div>")})
	_, err := svc.Completions(appPath, 3)
	assert.ErrorIs(t, err, service.ErrNoTemplate)
	_, err = svc.Completions("/proj/src/none.ts", 0)
	assert.ErrorIs(t, err, service.ErrUnknownFile)
}

func TestCompletionInNestedTemplate(t *testing.T) {
	entries := complete(t, "<ul>${items.map(item => html`<Foo .si|></Foo>`)}</ul>",
		map[string]string{"/proj/src/foo.ts": fooSource})
	assert.Equal(t, []string{".size"}, labels(entries))
}

func TestCompletionInsideInterpolation(t *testing.T) {
	src, at := cursor(t, fooImport+app(`<Foo .size=${'sm|'}></Foo>`))
	svc := newService(t, map[string]string{
		appPath:            src,
		"/proj/src/foo.ts": fooSource,
	})
	entries, err := svc.Completions(appPath, at)
	assert.ErrorIs(t, err, service.ErrNoTemplate)
	assert.Empty(t, entries)

	info, err := svc.QuickInfo(appPath, at)
	assert.ErrorIs(t, err, service.ErrNoTemplate)
	assert.Nil(t, info)

	_, err = svc.RegionAt(appPath, at)
	assert.ErrorIs(t, err, service.ErrNoTemplate)

	// The placeholder boundary still belongs to the template.
	info, err = svc.QuickInfo(appPath, strings.Index(src, ".size")+1)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, service.LookupProperty, info.Kind)
}
