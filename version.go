package suprasig

import "runtime/debug"

// Release and GitCommit are set by build flags, for example
//
//	go build -ldflags "-X github.com/iov-one/suprasig.Release=v0.4.0 -X github.com/iov-one/suprasig.GitCommit=$(git rev-parse HEAD)"
var (
	Release   = ""
	GitCommit = ""
)

// develVersion is reported by builds that are neither tagged by build flags
// nor fetched as a module dependency.
const develVersion = "v0.4.0-dev"

const modulePath = "github.com/iov-one/suprasig"

// Version returns the release of this library. Without build flags the
// version of the module dependency is used, as recorded by the Go toolchain.
func Version() string {
	v := Release
	if v == "" {
		v = moduleVersion()
	}
	if c := GitCommit; c != "" {
		if len(c) > 8 {
			c = c[:8]
		}
		v += "+" + c
	}
	return v
}

func moduleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return develVersion
	}
	if info.Main.Path == modulePath && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			return dep.Version
		}
	}
	return develVersion
}

// UserAgent identifies this library in requests sent to a ledger node.
func UserAgent() string {
	return "suprasig/" + Version()
}
