//go:build !windows

package lineio

const nativeTerminator = "\n"
