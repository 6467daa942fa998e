package sysvars

import (
	"os"
	"runtime"
	"strconv"
)

// DebugEnabled turns on extra diagnostics (failed collector logs, full
// caller paths). It is set once at startup, before any goroutine reads it.
var DebugEnabled, _ = strconv.ParseBool(os.Getenv("QTMON_DEBUG"))

type Platform uint8

const (
	PlatformUnknown Platform = iota
	PlatformLinux
	PlatformDarwin
	PlatformWindows
	PlatformBSD
)

// CurrentPlatform is resolved once for the running binary.
var CurrentPlatform = PlatformFrom(runtime.GOOS)

func PlatformFrom(goos string) Platform {
	switch goos {
	case "linux", "android":
		return PlatformLinux
	case "darwin", "ios":
		return PlatformDarwin
	case "windows":
		return PlatformWindows
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return PlatformBSD
	default:
		return PlatformUnknown
	}
}

// MultiVolume reports whether filesystems are exposed as independent drive
// letters rather than one mount tree.
func (p Platform) MultiVolume() bool {
	return p == PlatformWindows
}

func (p Platform) String() string {
	switch p {
	case PlatformLinux:
		return "linux"
	case PlatformDarwin:
		return "darwin"
	case PlatformWindows:
		return "windows"
	case PlatformBSD:
		return "bsd"
	default:
		return "unknown"
	}
}
