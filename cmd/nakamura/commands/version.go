package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christianvuerings/nakamura/version"
)

var versionJSON bool

// VersionCmd prints build information
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if versionJSON {
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}
		fmt.Println(info.String())
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolVar(&versionJSON, "json", false, "print version info as JSON")
}
