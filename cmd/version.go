package cmd

import (
	"fmt"

	"github.com/matishsiao/goInfo"
	"github.com/spf13/cobra"
)

// Version is overridden through ldflags on release builds.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and host information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("picsp %s\n", Version)
		if gi, err := goInfo.GetInfo(); err == nil {
			fmt.Printf("  OS: %s  VER: %s\n", gi.GoOS, gi.Core)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
