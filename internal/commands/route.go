package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autobrr/mediaweb/internal/router"
)

func RouteCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "route [path]",
		Short: "show which template and view a path resolves to",
		Long:  `show which template and view a path resolves to`,
		Example: `  mediaweb route /config
  mediaweb route / --json`,
		Args: cobra.MaximumNArgs(1),
	}

	var outputJson bool
	command.Flags().BoolVar(&outputJson, "json", false, "output in JSON format")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		route := router.Default().Resolve(path)
		out := cmd.OutOrStdout()

		if outputJson {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(route)
		}

		controller := string(route.Controller)
		if !route.HasController() {
			controller = "none"
		}
		fmt.Fprintf(out, "Template: %s\n", route.Template)
		fmt.Fprintf(out, "Controller: %s\n", controller)
		return nil
	}

	return command
}
