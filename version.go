package anytag

import (
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the anytag library.
const Version = "0.1.0"

// VersionInfo describes the build of the running binary.
type VersionInfo struct {
	Version   string
	GoVersion string
	Revision  string // VCS revision, or "unknown"
	Modified  bool   // Built from a dirty tree
}

// GetVersionInfo reads build details embedded by the Go toolchain.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GoVersion: runtime.Version(),
		Revision:  "unknown",
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String formats the version as "0.1.0 (abc1234, go1.26.0)".
func (v VersionInfo) String() string {
	rev := v.Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if v.Modified {
		rev += "+dirty"
	}
	return v.Version + " (" + rev + ", " + v.GoVersion + ")"
}
