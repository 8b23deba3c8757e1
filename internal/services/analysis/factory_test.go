package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"HyperMaker/internal/domain/apperror"
	"HyperMaker/internal/services/analysis"
	pkghttp "HyperMaker/pkg/http"
)

func TestBuildSources(t *testing.T) {
	t.Parallel()

	httpc := pkghttp.NewClient()

	t.Run("auto and agent both resolve to one provider", func(t *testing.T) {
		for _, mode := range []string{"auto", "agent", "AUTO", " agent "} {
			sources, err := analysis.BuildSources(mode, testSettings("http://127.0.0.1:0"), httpc, newTestLogger(t))
			require.NoError(t, err, "mode %q", mode)
			require.Len(t, sources, 1, "mode %q", mode)
		}
	})

	t.Run("removed http mode is rejected", func(t *testing.T) {
		_, err := analysis.BuildSources("http", testSettings("http://127.0.0.1:0"), httpc, newTestLogger(t))
		require.Equal(t, apperror.KindConfiguration, apperror.KindOf(err))
		require.Contains(t, err.Error(), "fallback has been removed")
	})

	t.Run("missing api key is a configuration error", func(t *testing.T) {
		settings := testSettings("http://127.0.0.1:0")
		settings.APIKey = ""
		_, err := analysis.BuildSources("agent", settings, httpc, newTestLogger(t))
		require.Equal(t, apperror.KindConfiguration, apperror.KindOf(err))
	})
}
