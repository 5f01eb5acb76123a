package log_test

import (
	"bytes"
	"testing"

	"bennypowers.dev/lupls/internal/log"
	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)
	defer log.SetLevel(log.LevelInfo)

	tests := []struct {
		level   log.Level
		present []string
		absent  []string
	}{
		{log.LevelDebug, []string{"dbg", "inf", "wrn", "err"}, nil},
		{log.LevelInfo, []string{"inf", "wrn", "err"}, []string{"dbg"}},
		{log.LevelWarn, []string{"wrn", "err"}, []string{"dbg", "inf"}},
		{log.LevelError, []string{"err"}, []string{"dbg", "inf", "wrn"}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			buf.Reset()
			log.SetLevel(tt.level)
			log.Debug("dbg")
			log.Info("inf")
			log.Warn("wrn")
			log.Error("err")
			out := buf.String()
			for _, s := range tt.present {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)
	log.SetLevel(log.LevelInfo)

	log.Info("loaded %d files", 3)
	log.Warn("slow %s", "scan")
	assert.Equal(t, "[LUPLS] loaded 3 files\n[LUPLS] WARN: slow scan\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	lvl, ok := log.ParseLevel("Warning")
	assert.True(t, ok)
	assert.Equal(t, log.LevelWarn, lvl)

	lvl, ok = log.ParseLevel("loud")
	assert.False(t, ok)
	assert.Equal(t, log.LevelInfo, lvl)
}

func TestNilOutput(t *testing.T) {
	log.SetOutput(nil)
	assert.NotPanics(t, func() { log.Error("nowhere") })
}
