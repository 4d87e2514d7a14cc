// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !darwin

package cocoa

import "github.com/gogpu/softblit"

// Name is the registry name of this backend.
const Name = "cocoa"

// init registers an unavailable entry on platforms without the real
// implementation, mirroring the x11 stub.
func init() {
	softblit.Register(Name, 100,
		func(h softblit.WindowHandle, cfg softblit.Config) (softblit.Surface, error) {
			return nil, &softblit.BackendUnavailableError{Name: Name}
		},
		func() bool { return false })
}
