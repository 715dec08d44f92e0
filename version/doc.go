// Package version reports lockstep build information.
//
// Version, commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/lockstep/version.Version=1.0.0 \
//	    -X github.com/kbukum/lockstep/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Anything left unset is filled from the VCS stamps in the binary's build
// info when available.
package version
