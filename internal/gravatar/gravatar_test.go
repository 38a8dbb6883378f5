package gravatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLDeterministic(t *testing.T) {
	assert.Equal(t, URL("a@x.com"), URL("a@x.com"))
}

func TestURLNormalizesCaseAndSpace(t *testing.T) {
	assert.Equal(t, URL("a@x.com"), URL("  A@X.COM "))
}

func TestURLKnownHash(t *testing.T) {
	// md5("a@x.com") = 743173788aa9166801df2e18f0e7ff24
	assert.Equal(t,
		"https://www.gravatar.com/avatar/743173788aa9166801df2e18f0e7ff24?s=200&r=pg&d=mm",
		URL("a@x.com"))
}
