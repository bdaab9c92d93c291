//go:build unix && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package term

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios  = unix.TCGETS
	ioctlWriteTermios = unix.TCSETS
)
