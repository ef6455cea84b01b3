package harness_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplekit/ripple/internal/harness"
)

func TestGolden_Scenarios(t *testing.T) {
	scenarios := []string{
		"testdata/scenarios/thermostat-basic.yaml",
		"testdata/scenarios/pair-latest.yaml",
	}
	for _, path := range scenarios {
		s, err := harness.LoadScenario(path)
		require.NoError(t, err)

		t.Run(s.Name, func(t *testing.T) {
			result, err := harness.RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Passed(), "failures: %v", result.Failures)
		})
	}
}
