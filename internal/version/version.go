// Package version holds build metadata for the stylint CLI.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Styled renders Version with the major, minor and patch parts colored.
// Anything after the patch number (pre-release, build) is left plain.
func Styled() string {
	core, rest := Version, ""
	if i := strings.IndexAny(Version, "-+"); i >= 0 {
		core, rest = Version[:i], Version[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + rest
}

// Info is the full one-line description printed by `stylint version`.
func Info(styled bool) string {
	v := Version
	if styled {
		v = Styled()
	}
	var b strings.Builder
	b.WriteString("stylint ")
	b.WriteString(v)
	if GitCommit != "" {
		b.WriteString(" (" + GitCommit)
		if BuildDate != "" {
			b.WriteString(", " + BuildDate)
		}
		b.WriteString(")")
	} else if BuildDate != "" {
		b.WriteString(" (" + BuildDate + ")")
	}
	return b.String()
}
