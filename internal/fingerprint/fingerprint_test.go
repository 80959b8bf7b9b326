package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_Deterministic(t *testing.T) {
	t.Parallel()

	a := Compute("nuclei", "Open Redirect", "api.example.com")
	b := Compute("nuclei", "Open Redirect", "api.example.com")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestCompute_CaseAndWhitespaceInsensitive(t *testing.T) {
	t.Parallel()

	upper := Compute("Nuclei", "Open Redirect", "API.EXAMPLE.com")
	lower := Compute("nuclei", "open redirect", "api.example.com")
	padded := Compute("  nuclei ", "\topen redirect\n", " api.example.com ")

	assert.Equal(t, lower, upper)
	assert.Equal(t, lower, padded)
}

func TestCompute_FieldOrderSensitive(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t,
		Compute("a", "b", "c"),
		Compute("c", "b", "a"),
	)
}

// The joined-string format is a wire contract; verify the exact bytes hashed.
func TestCompute_WireFormat(t *testing.T) {
	t.Parallel()

	sum := sha256.Sum256([]byte("nuclei|open redirect|api.example.com"))
	want := hex.EncodeToString(sum[:])

	assert.Equal(t, want, Compute("Nuclei", "Open Redirect", "api.example.com"))
}
