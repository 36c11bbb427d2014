// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"reflect"
	"runtime"
	"strings"
)

const maxCallSiteFrames = 32

// CallSiteResolver reports the source line of the code that issued a log call.
// skip is the number of frames between the resolver's Line method and the formatter's caller.
type CallSiteResolver interface {
	Line(skip int) (int, bool)
}

// NoCallSite never resolves a line.
type NoCallSite struct{}

func (NoCallSite) Line(int) (int, bool) {
	return 0, false
}

// FixedDepth resolves the frame found at a fixed distance above the formatter's caller.
// FixedDepth(0) is the function that called Format.
type FixedDepth int

func (d FixedDepth) Line(skip int) (int, bool) {
	_, _, line, ok := runtime.Caller(skip + int(d))
	if !ok || line <= 0 {
		return 0, false
	}
	return line, true
}

// FrameResolver walks the stack upward and returns the first frame that does not belong to
// one of its marker packages. Frames declared in _test.go files are never skipped, so package
// tests resolve to their own lines.
type FrameResolver struct {
	prefixes []string
}

// NewFrameResolver returns a resolver skipping this package plus every package whose import
// path is listed in markers.
func NewFrameResolver(markers ...string) *FrameResolver {
	prefixes := make([]string, 0, len(markers)+1)
	prefixes = append(prefixes, PackagePath()+".")
	for _, marker := range markers {
		prefixes = append(prefixes, strings.TrimSuffix(marker, ".")+".")
	}
	return &FrameResolver{prefixes: prefixes}
}

func (r *FrameResolver) Line(skip int) (int, bool) {
	pcs := make([]uintptr, maxCallSiteFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return 0, false
	}

	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !r.skipped(frame) {
			return frame.Line, frame.Line > 0
		}
		if !more {
			return 0, false
		}
	}
}

func (r *FrameResolver) skipped(frame runtime.Frame) bool {
	if strings.HasSuffix(frame.File, "_test.go") {
		return false
	}
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(frame.Function, prefix) {
			return true
		}
	}
	return false
}

// PackagePath returns the import path of this package.
func PackagePath() string {
	return reflect.TypeOf(Formatter{}).PkgPath()
}
