package types_test

import (
	"errors"
	"testing"

	"bennypowers.dev/lupls/lsp/testutil"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/stretchr/testify/assert"
)

func TestRequestContextWarnings(t *testing.T) {
	req := types.NewRequestContext(testutil.NewMockServerContext(), nil)
	assert.False(t, req.HasWarnings())
	assert.Nil(t, req.Warnings())

	req.AddWarning(nil)
	assert.False(t, req.HasWarnings())

	first := errors.New("first")
	second := errors.New("second")
	req.AddWarning(first)
	req.AddWarning(second)
	assert.True(t, req.HasWarnings())
	assert.Equal(t, []error{first, second}, req.Warnings())
}

func TestDefaultConfig(t *testing.T) {
	cfg := types.DefaultConfig()
	assert.Equal(t, []string{"html", "css", "svg"}, cfg.TemplateTags)
	assert.True(t, cfg.Diagnostics)
}
