package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kolkov/sharedptr"
)

// versionInfo is the structured form of the version command's output.
type versionInfo struct {
	Version   string   `json:"version" yaml:"version"`
	MinGo     string   `json:"min_go" yaml:"min_go"`
	GoVersion string   `json:"go_version" yaml:"go_version"`
	Platform  string   `json:"platform" yaml:"platform"`
	Kinds     []string `json:"kinds" yaml:"kinds"`
	Tracking  bool     `json:"tracking" yaml:"tracking"`
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := sharedptr.GetInfo()
			v := versionInfo{
				Version:   info.Version,
				MinGo:     info.MinGo,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
				Kinds:     info.Kinds,
				Tracking:  info.Tracking,
			}

			if a.cfg.Format != "table" {
				return writeStructured(cmd.OutOrStdout(), a.cfg.Format, v)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "sharedptr version %s (%s, %s; kinds %s)\n",
				v.Version, v.GoVersion, v.Platform, strings.Join(v.Kinds, ", "))
			return err
		},
	}
}
