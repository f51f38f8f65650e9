// SPDX-License-Identifier: MIT

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v1.0.0", "abc123", "2026-01-01"
	assert.Equal(t, "v1.0.0 (commit: abc123, built: 2026-01-01)", String())
}
