package template_test

import (
	"testing"

	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/template"
	"github.com/stretchr/testify/require"
)

// build parses src as a TypeScript file and virtualizes its first literal.
func build(t *testing.T, src string) *template.Template {
	t.Helper()
	file, err := ts.ParseFile("fixture.ts", []byte(src))
	require.NoError(t, err)
	require.NotEmpty(t, file.Templates, "fixture has no tagged template")
	return template.New("/proj/fixture.ts", src, file.Templates[0])
}
