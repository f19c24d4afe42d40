//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package probe

import "time"

func openRawSocket(timeout time.Duration) (rawConn, error) {
	return nil, ErrUnsupportedPlatform
}
