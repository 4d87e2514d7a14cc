// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux

package x11

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// shmSegment is one SysV shared memory segment mapped into this process.
// The X server attaches the same segment by ID, which is what lets
// shm.PutImage read frames without them crossing the socket.
type shmSegment struct {
	id   int
	data []byte
}

// newSHMSegment creates and attaches a private segment of the given size.
// The segment is marked for removal immediately after attach, so the
// kernel reclaims it when the last attachment (ours or the X server's)
// goes away, even if the process dies without calling detach.
func newSHMSegment(size int) (*shmSegment, error) {
	id, err := unix.SysvShmGet(unix.IPC_PRIVATE, size, unix.IPC_CREAT|0o600)
	if err != nil {
		return nil, fmt.Errorf("shmget(%d bytes): %w", size, err)
	}
	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		// Not attached anywhere, removal is immediate.
		_, _ = unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		return nil, fmt.Errorf("shmat: %w", err)
	}
	if _, err := unix.SysvShmCtl(id, unix.IPC_RMID, nil); err != nil {
		_ = unix.SysvShmDetach(data)
		return nil, fmt.Errorf("shmctl(IPC_RMID): %w", err)
	}
	return &shmSegment{id: id, data: data}, nil
}

// detach unmaps the segment from this process. Safe to call twice.
func (s *shmSegment) detach() error {
	if s.data == nil {
		return nil
	}
	err := unix.SysvShmDetach(s.data)
	s.data = nil
	if err != nil {
		return fmt.Errorf("shmdt: %w", err)
	}
	return nil
}
