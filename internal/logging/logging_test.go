package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name        string
		env         string
		verbose     bool
		debugOn     bool
		infoEnabled bool
	}{
		{name: "development default", env: "", debugOn: true, infoEnabled: true},
		{name: "production", env: "production", debugOn: false, infoEnabled: true},
		{name: "production short name", env: "PROD", debugOn: false, infoEnabled: true},
		{name: "production verbose", env: "prod", verbose: true, debugOn: true, infoEnabled: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := New(tc.env, tc.verbose)
			require.NoError(t, err)
			core := log.Desugar().Core()
			assert.Equal(t, tc.debugOn, core.Enabled(zapcore.DebugLevel))
			assert.Equal(t, tc.infoEnabled, core.Enabled(zapcore.InfoLevel))
		})
	}
}

func TestOrNop(t *testing.T) {
	log := OrNop(nil)
	require.NotNil(t, log)
	assert.False(t, log.Desugar().Core().Enabled(zapcore.ErrorLevel))
}
