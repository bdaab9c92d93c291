//go:build unix

package term

import "golang.org/x/sys/unix"

// keepOutputTranslation re-enables output post-processing on a terminal
// whose input side just went raw. Only the input flags need to stay
// raw; output keeps cooked LF to CRLF translation.
func keepOutputTranslation(fd int) error {
	tio, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return err
	}
	withOutputTranslation(tio)
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, tio)
}

func withOutputTranslation(tio *unix.Termios) {
	tio.Oflag |= unix.OPOST | unix.ONLCR
}
