package ts_test

import (
	"strings"
	"testing"

	"bennypowers.dev/lupls/internal/parser/ts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(v *ts.Value) []string {
	var out []string
	for _, e := range v.Entries {
		out = append(out, e.Key)
	}
	return out
}

func TestParseValues(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		text := `{gap: 4, 'quoted': 1, short, nested: {top: 2}, go() {}, [computed]: 3}`
		values, err := ts.ParseValues(text)
		require.NoError(t, err)
		require.Len(t, values, 1)
		v := values[0]
		assert.Equal(t, ts.ValueObject, v.Kind)
		assert.Equal(t, ts.Span{Start: 0, End: len(text)}, v.Span)
		assert.Equal(t, []string{"gap", "quoted", "short", "nested", "go"}, keys(v))

		gap := v.Entries[0]
		assert.Equal(t, "gap", text[gap.KeySpan.Start:gap.KeySpan.End])
		assert.Equal(t, ts.ValueOther, gap.Value.Kind)
		assert.True(t, v.Entries[2].Shorthand)
		assert.Nil(t, v.Entries[4].Value)

		nested := v.Entries[3].Value
		assert.Equal(t, ts.ValueObject, nested.Kind)
		assert.Equal(t, []string{"top"}, keys(nested))

		top, ok := v.EntryAt(strings.Index(text, "top") + 1)
		require.True(t, ok)
		assert.Equal(t, "top", top.Key)
		_, ok = v.EntryAt(strings.Index(text, "4"))
		assert.False(t, ok)
	})

	t.Run("array", func(t *testing.T) {
		text := `[{a: 1}, x, ...rest, ...[{b: 2}]]`
		values, err := ts.ParseValues(text)
		require.NoError(t, err)
		require.Len(t, values, 1)
		v := values[0]
		assert.Equal(t, ts.ValueArray, v.Kind)
		require.Len(t, v.Items, 2)
		assert.Equal(t, ts.ValueObject, v.Items[0].Kind)
		assert.Equal(t, ts.ValueIdentifier, v.Items[1].Kind)
		require.Len(t, v.Spreads, 2)
		assert.Equal(t, ts.ValueIdentifier, v.Spreads[0].Kind)

		b, ok := v.EntryAt(strings.Index(text, "b"))
		require.True(t, ok)
		assert.Equal(t, "b", b.Key)
	})

	t.Run("sequence", func(t *testing.T) {
		text := `ok, 'hi', {gap: 1}`
		values, err := ts.ParseValues(text)
		require.NoError(t, err)
		require.Len(t, values, 3)
		assert.Equal(t, ts.ValueIdentifier, values[0].Kind)
		assert.Equal(t, ts.ValueOther, values[1].Kind)
		assert.Equal(t, ts.ValueObject, values[2].Kind)
		assert.Equal(t, "{gap: 1}", text[values[2].Span.Start:values[2].Span.End])
	})

	t.Run("parenthesized sequence", func(t *testing.T) {
		text := `('hi', {gap: 1})`
		values, err := ts.ParseValues(text)
		require.NoError(t, err)
		require.Len(t, values, 2)
		assert.Equal(t, "{gap: 1}", text[values[1].Span.Start:values[1].Span.End])
	})

	t.Run("unfinished key", func(t *testing.T) {
		text := `{gap: 1, o}`
		values, err := ts.ParseValues(text)
		require.NoError(t, err)
		require.Len(t, values, 1)
		e, ok := values[0].EntryAt(strings.Index(text, "o") + 1)
		require.True(t, ok)
		assert.Equal(t, "o", e.Key)
	})
}

func TestParseTypeLiteral(t *testing.T) {
	text := "{\n\t/** Left edge. */\n\tleft: number,\n\ttop?: string\n}"
	props := ts.ParseTypeLiteral(text)
	require.Len(t, props, 2)

	left := props[0]
	assert.Equal(t, "left", left.Name)
	assert.Equal(t, "number", left.Type)
	assert.Equal(t, "Left edge.", left.Description)
	assert.Equal(t, "left", text[left.NameSpan.Start:left.NameSpan.End])

	top := props[1]
	assert.Equal(t, "top", text[top.NameSpan.Start:top.NameSpan.End])
	assert.True(t, top.Optional)

	assert.Empty(t, ts.ParseTypeLiteral("string"))
}

func TestMethodParams(t *testing.T) {
	src := `export class tip {
	update(content: string, options?: TipOptions, rest = 1) {}
}
export declare class Declared {
	update(value: Record<string, number>): void
}
`
	file, err := ts.ParseFile("tip.ts", []byte(src))
	require.NoError(t, err)
	require.Len(t, file.Classes, 2)

	update := file.Classes[0].Member("update")
	require.NotNil(t, update)
	assert.Equal(t, ts.MemberMethod, update.Kind)
	require.Len(t, update.Params, 3)
	assert.Equal(t, "content", update.Params[0].Name)
	assert.Equal(t, "string", update.Params[0].Type)

	options := update.Params[1]
	assert.Equal(t, "options", options.Name)
	assert.True(t, options.Optional)
	assert.Equal(t, "TipOptions", options.Type)
	assert.Equal(t, "TipOptions", src[options.TypeSpan.Start:options.TypeSpan.End])
	assert.Empty(t, update.Params[2].Type)

	declared := file.Classes[1].Member("update")
	require.NotNil(t, declared)
	assert.Equal(t, ts.MemberMethod, declared.Kind)
	require.Len(t, declared.Params, 1)
	assert.Equal(t, "Record<string, number>", declared.Params[0].Type)
}
