package cmd

import (
	"fmt"

	"github.com/VSPipe/colorbleed-config/internal/job"
	"github.com/VSPipe/colorbleed-config/internal/submit"
	"github.com/VSPipe/colorbleed-config/internal/workfile"
	"github.com/VSPipe/colorbleed-config/pkg/cbfarm"
	"github.com/spf13/cobra"
)

var submitIncrement bool

var submitCmd = &cobra.Command{
	Use:   "submit ITEM.yaml...",
	Short: "Submit work items as export and render jobs",
	Long: `Reads each work item file and submits a vrscene export job followed by a
render job that depends on it. Render settings are validated first; an item
with bad settings is skipped and nothing is sent for it.

With --increment, every scene whose items were all submitted is saved under
its next version afterwards.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		var (
			failed int
			scenes []string
			// per scene, one report per submitted item
			reports = make(map[string][]submit.StepReport)
		)

		for _, path := range args {
			item, err := job.LoadWorkItem(path)
			if err != nil {
				errorf("%v", err)
				failed++
				continue
			}

			res, err := client.Submit(cmd.Context(), *item)
			printResult(item.Name, res)

			if _, seen := reports[item.SceneFile]; !seen {
				scenes = append(scenes, item.SceneFile)
			}
			report := submit.StepReport{Step: "submit " + item.Name}
			if err != nil {
				errorf("%s: %v", item.Name, err)
				report.Failed = true
				report.Reason = err.Error()
				failed++
			}
			reports[item.SceneFile] = append(reports[item.SceneFile], report)
		}

		if submitIncrement {
			for _, scene := range scenes {
				next, err := workfile.Increment(scene, reports[scene]...)
				if err != nil {
					errorf("%v", err)
					continue
				}
				info("Saved %s", next)
			}
		}

		if failed > 0 {
			return fmt.Errorf("submit failed: %d of %d item(s) not submitted", failed, len(args))
		}
		return nil
	},
}

func printResult(name string, res *cbfarm.Result) {
	if res == nil {
		return
	}
	switch res.State {
	case cbfarm.StateDone:
		info("%s: export %s, render %s", name, res.ExportJobID, res.RenderJobID)
		detail("output: %s", res.OutputDir)
	case cbfarm.StateSuspended:
		info("%s: export %s (render suspended)", name, res.ExportJobID)
	case cbfarm.StateSkipped:
		info("%s: skipped", name)
	case cbfarm.StateRenderSubmitted:
		info("%s: export %s, render %s (hand-off failed)", name, res.ExportJobID, res.RenderJobID)
	default:
		info("%s: %s", name, res.State)
	}
	detail("submission: %s", res.SubmissionID)
	detailJSON("export job", res.ExportPayload)
	detailJSON("render job", res.RenderPayload)
}

func init() {
	submitCmd.Flags().BoolVar(&submitIncrement, "increment", false, "save each fully submitted scene under its next version")
	rootCmd.AddCommand(submitCmd)
}
