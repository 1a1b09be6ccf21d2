package cmd

import (
	"fmt"

	"github.com/VSPipe/colorbleed-config/internal/job"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [ITEM.yaml...]",
	Short: "Validate the config and work items",
	Long: `Loads the layered config and reports problems. Each work item file given is
checked for required fields and for render settings (filename prefix and frame
padding) of its renderer. Nothing is sent to the farm.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		cfg := client.Config()
		info("Config OK (farm %s, submit kind %s)", cfg.Deadline.URL, cfg.Submit.Kind)

		var invalid int
		for _, path := range args {
			item, err := job.LoadWorkItem(path)
			if err != nil {
				errorf("%v", err)
				invalid++
				continue
			}

			if errs := client.ValidateRenderSettings(*item); len(errs) > 0 {
				for _, e := range errs {
					errorf("%s: %s", item.Name, e)
				}
				invalid++
				continue
			}
			info("%s: OK", item.Name)
			detail("scene: %s", item.SceneFile)
			detail("frames: %d-%d", item.StartFrame, item.EndFrame)
		}

		if invalid > 0 {
			return fmt.Errorf("validation failed: %d of %d item(s) invalid", invalid, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
