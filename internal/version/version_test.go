package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringIncludesBuildInfo(t *testing.T) {
	s := String()
	assert.True(t, strings.HasPrefix(s, "deepself "+Version))
	assert.Contains(t, s, "commit: "+GitCommit)
	assert.Contains(t, s, "built: "+BuildDate)
}

func TestUserAgent(t *testing.T) {
	assert.True(t, strings.HasPrefix(UserAgent(), "deepself-cli/"+Short()))
}
