package framework

import (
	"testing"

	"github.com/onsi/ginkgo"
	"github.com/stretchr/testify/assert"
)

func TestFailfFailsCurrentTest(t *testing.T) {
	assert.PanicsWithValue(t, ginkgo.GINKGO_PANIC, func() {
		Failf("Label form description %q was not equal to the actual description %q", "a", "b")
	})
}
