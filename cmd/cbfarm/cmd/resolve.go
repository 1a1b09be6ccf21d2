package cmd

import (
	"fmt"

	"github.com/VSPipe/colorbleed-config/pkg/cbfarm"
	"github.com/spf13/cobra"
)

var (
	resolvePublish bool
	resolveDraft   bool
	resolveForSave bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve URI...",
	Short: "Resolve avalon:// references to file paths",
	Long: `Resolves each argument within one save session. Published mode maps
avalon://asset/subset.ext to the subset's master file below the project's
publish template; draft mode maps it to asset_subset.ext. Arguments that are
not avalon:// references are printed unchanged.

The mode defaults to resolver.usePublishPaths from the config.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if resolvePublish && resolveDraft {
			return fmt.Errorf("--publish and --draft are mutually exclusive")
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		usePublish := client.UsePublishPaths()
		switch {
		case resolvePublish:
			usePublish = true
		case resolveDraft:
			usePublish = false
		}

		session, err := client.BeginSave(cmd.Context(), usePublish)
		if err != nil {
			return err
		}
		defer session.EndSave()
		detail("session %s (publish paths: %t)", session.ID(), usePublish)

		var failed int
		for _, raw := range args {
			path, err := session.Resolve(cmd.Context(), cbfarm.Key{Raw: raw, ForSave: resolveForSave})
			if err != nil {
				errorf("%s: %v", raw, err)
				failed++
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}

		if failed > 0 {
			return fmt.Errorf("resolve failed: %d of %d reference(s)", failed, len(args))
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolvePublish, "publish", false, "resolve to published master paths")
	resolveCmd.Flags().BoolVar(&resolveDraft, "draft", false, "resolve to draft file names")
	resolveCmd.Flags().BoolVar(&resolveForSave, "for-save", false, "resolve as save targets (always draft)")
	rootCmd.AddCommand(resolveCmd)
}
