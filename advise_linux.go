//go:build linux

package labdup

import "golang.org/x/sys/unix"

// fadviseSequential hints to the kernel that the file will be read front to
// back. A length of 0 covers the whole file.
// Best-effort: errors are silently ignored.
func fadviseSequential(fd int, offset, length int64) {
	_ = unix.Fadvise(fd, offset, length, unix.FADV_SEQUENTIAL)
}

// madviseSequential asks for aggressive read-ahead on a mapped record file,
// which the parser walks exactly once.
// Best-effort: errors are silently ignored.
func madviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
