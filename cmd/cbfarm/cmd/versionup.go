package cmd

import (
	"fmt"

	"github.com/VSPipe/colorbleed-config/internal/workfile"
	"github.com/spf13/cobra"
)

var versionUpDryRun bool

var versionUpCmd = &cobra.Command{
	Use:   "version-up SCENE",
	Short: "Save a scene file under its next free version",
	Long: `Copies SCENE to the next version that does not exist yet, keeping the
version padding (shot_v006.ma becomes shot_v007.ma). A file without a version
token gets _v001 appended.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scene := args[0]
		if versionUpDryRun {
			fmt.Fprintln(cmd.OutOrStdout(), workfile.NextFree(scene))
			return nil
		}

		next, err := workfile.Increment(scene)
		if err != nil {
			return err
		}
		info("Saved %s", next)
		return nil
	},
}

func init() {
	versionUpCmd.Flags().BoolVar(&versionUpDryRun, "dry-run", false, "print the next version without writing it")
	rootCmd.AddCommand(versionUpCmd)
}
