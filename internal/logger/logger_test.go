package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name       string
		env, level string
		debugOn    bool
		infoOn     bool
	}{
		{name: "dev debug", env: "dev", level: "debug", debugOn: true, infoOn: true},
		{name: "prod warn", env: "prod", level: "warn", debugOn: false, infoOn: false},
		{name: "unknown level", env: "prod", level: "verbose", debugOn: false, infoOn: true},
		{name: "empty level", env: "", level: "", debugOn: false, infoOn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.env, tt.level)
			assert.Equal(t, tt.debugOn, l.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, tt.infoOn, l.Core().Enabled(zap.InfoLevel))
		})
	}
}
