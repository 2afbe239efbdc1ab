package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/grahms/docweaver"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "0.1.0"
	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"
	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"
)

// buildVersion is what the version command reports.
type buildVersion struct {
	Version   string
	Commit    string
	Date      string
	Modified  bool
	GoVersion string
}

// currentVersion starts from the build-flag values and fills whatever is
// still unset from the VCS stamp the go tool embeds in the binary.
func currentVersion(info *debug.BuildInfo, ok bool) buildVersion {
	v := buildVersion{
		Version:   Version,
		Commit:    GitCommit,
		Date:      BuildDate,
		GoVersion: runtime.Version(),
	}
	if !ok || info == nil {
		return v
	}
	if info.GoVersion != "" {
		v.GoVersion = info.GoVersion
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if v.Commit == "unknown" {
				v.Commit = s.Value
			}
		case "vcs.time":
			if v.Date == "unknown" {
				v.Date = s.Value
			}
		case "vcs.modified":
			v.Modified = s.Value == "true"
		}
	}
	return v
}

func (v buildVersion) write(w io.Writer, rules int) {
	commit := v.Commit
	if v.Modified {
		commit += " (modified)"
	}
	fmt.Fprintf(w, "docweaver %s\n", v.Version)
	fmt.Fprintf(w, "Git Commit: %s\n", commit)
	fmt.Fprintf(w, "Build Date: %s\n", v.Date)
	fmt.Fprintf(w, "Go Version: %s\n", v.GoVersion)
	fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "Render rules: %d\n", rules)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the docweaver version, the Git commit and build date (from build
flags, or the VCS stamp in the binary), and the number of built-in render rules.`,
	Run: func(cmd *cobra.Command, args []string) {
		currentVersion(debug.ReadBuildInfo()).write(cmd.OutOrStdout(), docweaver.DefaultRules().Len())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
