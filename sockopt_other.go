//go:build !linux

package udp

import "syscall"

func inspectReadBuffer(syscall.RawConn) (int, error) { return 0, nil }

func forceSetReceiveBuffer(syscall.RawConn, int) error { return nil }
