//go:build windows

package lineio

const nativeTerminator = "\r\n"
