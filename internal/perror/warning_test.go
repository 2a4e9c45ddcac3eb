package perror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarningError(t *testing.T) {
	w := New("bad indent", 3, 4, "    x")
	assert.Equal(t, "3:4: bad indent", w.Error())
}

func TestFormatWarningsPlain(t *testing.T) {
	out := FormatWarnings([]Warning{New("oops", 1, 0, "")}, false)
	assert.Contains(t, out, "1:0:")
	assert.Contains(t, out, "oops")
}

func TestFormatWarningsEmpty(t *testing.T) {
	assert.Equal(t, "", FormatWarnings(nil, true))
}
