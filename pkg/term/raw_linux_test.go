//go:build linux

package term

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func openPty(t *testing.T) *os.File {
	t.Helper()
	ptm, err := os.OpenFile("/dev/ptmx", os.O_RDWR, 0)
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	t.Cleanup(func() { ptm.Close() })

	n, err := unix.IoctlGetInt(int(ptm.Fd()), unix.TIOCGPTN)
	require.NoError(t, err)
	require.NoError(t, unix.IoctlSetPointerInt(int(ptm.Fd()), unix.TIOCSPTLCK, 0))

	pts, err := os.OpenFile(fmt.Sprintf("/dev/pts/%d", n), os.O_RDWR, 0)
	require.NoError(t, err)
	t.Cleanup(func() { pts.Close() })
	return pts
}

func TestMakeRawKeepsOutputTranslation(t *testing.T) {
	pts := openPty(t)

	term := Open(pts, pts)
	require.True(t, term.Caps.InteractiveIn)

	restore, err := term.MakeRaw()
	require.NoError(t, err)
	defer restore()

	tio, err := unix.IoctlGetTermios(int(pts.Fd()), unix.TCGETS)
	require.NoError(t, err)

	// Input is raw, output still translates LF to CRLF: the renderer
	// moves down with literal newlines and expects column zero after.
	assert.Zero(t, tio.Lflag&unix.ICANON, "input must be raw")
	assert.Zero(t, tio.Lflag&unix.ECHO, "echo must be off")
	assert.NotZero(t, tio.Oflag&unix.OPOST, "output post-processing must stay on")
	assert.NotZero(t, tio.Oflag&unix.ONLCR, "LF to CRLF translation must stay on")
}

func TestMakeRawRestoreReturnsOriginalState(t *testing.T) {
	pts := openPty(t)

	before, err := unix.IoctlGetTermios(int(pts.Fd()), unix.TCGETS)
	require.NoError(t, err)

	term := Open(pts, pts)
	restore, err := term.MakeRaw()
	require.NoError(t, err)
	require.NoError(t, restore())

	after, err := unix.IoctlGetTermios(int(pts.Fd()), unix.TCGETS)
	require.NoError(t, err)
	assert.Equal(t, before.Lflag, after.Lflag)
	assert.Equal(t, before.Oflag, after.Oflag)
	assert.Equal(t, before.Iflag, after.Iflag)
}
