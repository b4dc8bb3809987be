// Package buildinfo holds values injected at link time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/gophticket/internal/buildinfo.Version=v0.3.0" ./cmd/cli
package buildinfo

import (
	"fmt"
	"io"
	"runtime"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the build version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}

func Full() string {
	return fmt.Sprintf("%s (%s, %s) %s %s/%s", Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
