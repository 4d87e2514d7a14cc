// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !linux

package x11

import "github.com/gogpu/softblit"

// Name is the registry name of this backend.
const Name = "x11"

// init registers an unavailable entry on platforms without the real
// implementation. Cross-platform code can import the package
// unconditionally; the registry reports the backend unavailable and
// automatic selection skips it.
func init() {
	softblit.Register(Name, 100,
		func(h softblit.WindowHandle, cfg softblit.Config) (softblit.Surface, error) {
			return nil, &softblit.BackendUnavailableError{Name: Name}
		},
		func() bool { return false })
}
