package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeTLSConfig(t *testing.T) {
	t.Run("MissingCA", func(t *testing.T) {
		_, err := MakeTLSConfig(filepath.Join(t.TempDir(), "ca.pem"), "", "")
		assert.ErrorContains(t, err, "failed to read CA certificate file")
	})

	t.Run("BrokenCA", func(t *testing.T) {
		ca := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(ca, []byte("not a certificate"), 0o600))

		_, err := MakeTLSConfig(ca, "", "")
		assert.ErrorContains(t, err, "failed to parse CA certificate")
	})
}
