package namenorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Basic(t *testing.T) {
	assert.Equal(t, "Jane Smith", Normalize("  JANE   SMITH  ", false))
	assert.Equal(t, "Jane Smith", Normalize("jane smith", false))
}

func TestNormalize_PreservesMixedCase(t *testing.T) {
	assert.Equal(t, "McDonald", Normalize("McDonald", false))
	assert.Equal(t, "O'Brien", Normalize("o'brien", false))
}

func TestNormalize_Aggressive_StripsTrailingParenthetical(t *testing.T) {
	assert.Equal(t, "Jane Smith", Normalize("JANE SMITH (1)", true))
	assert.Equal(t, "Dem Jane Smith", Normalize("DEM Jane Smith (2)", true))
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize("  jane   SMITH (3) ", true)
	twice := Normalize(once, true)
	assert.Equal(t, once, twice)
}
