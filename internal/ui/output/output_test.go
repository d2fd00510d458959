package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/tgr/internal/ui/output"
	"go.trai.ch/tgr/internal/ui/style"
)

func TestProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ProfileTerminal.Resolve())
	assert.Equal(t, termenv.Ascii, output.ProfileANSI.Resolve())
}

func TestProfile_ANSI(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, output.ProfileANSI.Resolve())
}

func TestPaint(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := output.New(&buf, output.ProfileANSI)
	_, _ = out.WriteString(output.Paint(out, "plain", style.Red))
	assert.Equal(t, "plain", buf.String())

	assert.NotNil(t, output.New(nil, output.ProfileTerminal))
}

func TestPaint_ANSI(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	out := output.New(&bytes.Buffer{}, output.ProfileANSI)
	painted := output.Paint(out, "red", style.Red)
	assert.Contains(t, painted, "red")
	assert.Contains(t, painted, "\x1b[")
}
