package enginelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDoesNotPanicAcrossLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		l := New(level)
		assert.NotNil(t, l)
		assert.NotPanics(t, func() {
			l.Debugf("test %s", level)
			l.Infof("test %s", level)
			l.Warnf("test %s", level)
			l.Errorf("test %s", level)
		})
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, parseLevel("info"), parseLevel("unknown-level"))
}
