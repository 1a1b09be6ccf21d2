package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

// initTemplate is the default cbfarm.yaml scaffold.
const initTemplate = `# cbfarm configuration
version: 1

deadline:
  url: http://localhost:8082   # or set AVALON_DEADLINE
  # user: render               # default: DEADLINE_USER, then the OS user
  timeout: 60s
  # pool: vray
  # priority: 50

project:
  name: my-project             # or set AVALON_PROJECT
  root: /projects              # or set AVALON_PROJECTS
  code: PRJ

environment:
  # Process variables forwarded to farm jobs, in this order.
  keys: [AVALON_TOOLS]
  # session:
  #   AVALON_PROJECT: my-project
  toolKey: AVALON_TOOLS
  renderTool: vrayrenderslave

resolver:
  usePublishPaths: false

assets:
  type: file
  path: ./project.yaml
  # type: postgres
  # databaseURL: postgres://avalon@db/avalon

# audit:
#   type: dir                  # payloads under ~/.local/state/cbfarm/audit
#   # type: minio
#   # minio:
#   #   endpoint: minio:9000
#   #   accessKey: ...
#   #   secretKey: ...
#   #   bucket: farm-submissions

# handoff:
#   type: redis
#   redis:
#     addr: localhost:6379
#     queue: cbfarm:publish

submit:
  kind: vrscene

# renderers:
#   - name: arnold
#     prefix: <Scene>/<RenderLayer>/<RenderLayer>
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter cbfarm.yaml configuration",
	Long: `Creates a cbfarm.yaml file with a commented template covering the farm,
project, environment forwarding, asset store and optional audit and publish
hand-off backends.

Use --force to overwrite an existing configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := configPath
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Point deadline.url at your Deadline web service")
		info("  2. Run 'cbfarm validate' to check the config")
		info("  3. Run 'cbfarm submit item.yaml' to submit a render layer")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
