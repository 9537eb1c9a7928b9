package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/autobrr/mediaweb/internal/logger"
	"github.com/autobrr/mediaweb/internal/services/configapi"
	"github.com/autobrr/mediaweb/internal/types"
	"github.com/autobrr/mediaweb/internal/utils"
	"github.com/autobrr/mediaweb/internal/view"
)

func ConfigCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "inspect the backend configuration",
		Long:  `inspect the backend configuration`,
	}

	command.AddCommand(ConfigFetchCommand())

	return command
}

func ConfigFetchCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "fetch",
		Short: "fetch api/config once and print the resulting view state",
		Long:  `fetch api/config once and print the resulting view state`,
		Example: `  mediaweb config fetch
  mediaweb config fetch --typed --json
  mediaweb config fetch --reveal`,
		Args: cobra.NoArgs,
	}

	var (
		outputJson = false
		typed      = false
		reveal     = false
	)

	command.Flags().BoolVar(&outputJson, "json", false, "output in JSON format")
	command.Flags().BoolVar(&typed, "typed", false, "decode into the known backend fields")
	command.Flags().BoolVar(&reveal, "reveal", false, "print API keys unmasked")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client, err := configapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout.Duration)
		if err != nil {
			return err
		}

		v := view.NewConfigView(client, logger.Component("config-view"))
		outcome := <-v.Activate(cmd.Context())
		if outcome.Err != nil {
			return fmt.Errorf("failed to fetch %s: %w", client.Endpoint(), outcome.Err)
		}

		state := v.Snapshot()
		if !reveal {
			state = maskState(state)
		}

		out := cmd.OutOrStdout()

		if typed {
			backend, err := utils.DecodeStruct[types.BackendConfig](state.Config)
			if err != nil {
				return err
			}
			if outputJson {
				return writeJSON(cmd, backend)
			}
			fmt.Fprintf(out, "RadarrApiKey: %s\n", backend.RadarrApiKey)
			fmt.Fprintf(out, "RadarrEndpoint: %s\n", backend.RadarrEndpoint)
			fmt.Fprintf(out, "SonarrApiKey: %s\n", backend.SonarrApiKey)
			fmt.Fprintf(out, "SonarrEndpoint: %s\n", backend.SonarrEndpoint)
			fmt.Fprintf(out, "WorkerEnabled: %t\n", backend.WorkerEnabled)
			fmt.Fprintf(out, "RadarrScannerEnabled: %t\n", backend.RadarrScannerEnabled)
			fmt.Fprintf(out, "SonarrScannerEnabled: %t\n", backend.SonarrScannerEnabled)
			return nil
		}

		if outputJson {
			return writeJSON(cmd, state)
		}

		key := "(absent)"
		if state.RadarrAPIKey != nil {
			key = state.RadarrAPIKeyText()
		}
		fmt.Fprintf(out, "Endpoint: %s\n", client.Endpoint())
		fmt.Fprintf(out, "RadarrApiKey: %s\n", key)

		keys := make([]string, 0, len(state.Config))
		for k := range state.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s = %v\n", k, state.Config[k])
		}
		return nil
	}

	return command
}

// secretFields are masked in CLI output unless --reveal is given.
var secretFields = map[string]func(string) string{
	"RadarrApiKey":   utils.SecretKey,
	"SonarrApiKey":   utils.SecretKey,
	"RadarrEndpoint": utils.SecretURL,
	"SonarrEndpoint": utils.SecretURL,
}

func maskState(state view.State) view.State {
	masked := state.Config.Clone()
	for field, mask := range secretFields {
		if s, ok := masked[field].(string); ok {
			masked[field] = mask(s)
		}
	}
	state.Config = masked

	if state.RadarrAPIKey != nil {
		state.RadarrAPIKey = utils.SecretKey(state.RadarrAPIKeyText())
	}
	return state
}

func writeJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
