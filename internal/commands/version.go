package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/autobrr/mediaweb/internal/buildinfo"
	"github.com/autobrr/mediaweb/internal/services/configapi"
	"github.com/autobrr/mediaweb/internal/services/core"
)

var releasesURL = "https://api.github.com/repos/autobrr/mediaweb/releases/latest"

const releaseTimeout = 10 * time.Second

// versionReport is what `mediaweb version` prints.
type versionReport struct {
	Version string        `json:"version"`
	Commit  string        `json:"commit,omitempty"`
	Date    string        `json:"date,omitempty"`
	Backend backendReport `json:"backend"`
	Latest  *release      `json:"latest,omitempty"`
}

type backendReport struct {
	Config string `json:"config"`
	Health string `json:"health"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

type release struct {
	TagName     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
	HTMLURL     string    `json:"html_url"`
}

func VersionCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "version",
		Short: "show build info and the backend this build talks to",
		Long:  `show build info and the backend this build talks to`,
		Example: `  mediaweb version
  mediaweb version --check-backend
  mediaweb version --check-github --json`,
		Args: cobra.NoArgs,
	}

	var (
		outputJson   = false
		checkBackend = false
		checkGithub  = false
	)

	command.Flags().BoolVar(&outputJson, "json", false, "output in JSON format")
	command.Flags().BoolVar(&checkBackend, "check-backend", false, "probe the backend health endpoint")
	command.Flags().BoolVar(&checkGithub, "check-github", false, "check for a newer release")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client, err := configapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout.Duration)
		if err != nil {
			return err
		}

		report := versionReport{
			Version: buildinfo.Version,
			Commit:  buildinfo.Commit,
			Date:    buildinfo.Date,
			Backend: backendReport{
				Config: client.Endpoint(),
				Health: client.HealthEndpoint(),
			},
		}

		if checkBackend {
			// an unhealthy backend is reported, not fatal
			status, err := client.CheckHealth(cmd.Context())
			report.Backend.Status = status
			if err != nil {
				report.Backend.Error = err.Error()
			}
		}

		if checkGithub {
			latest, err := latestRelease(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to check latest version: %w", err)
			}
			report.Latest = latest
		}

		if outputJson {
			return writeJSON(cmd, report)
		}
		printVersionReport(cmd.OutOrStdout(), report, checkBackend)
		return nil
	}

	return command
}

func printVersionReport(out io.Writer, r versionReport, checkedBackend bool) {
	fmt.Fprintf(out, "mediaweb version %s\n", r.Version)
	if r.Commit != "" {
		fmt.Fprintf(out, "Commit: %s\n", r.Commit)
	}
	if r.Date != "" {
		fmt.Fprintf(out, "Built: %s\n", r.Date)
	}

	fmt.Fprintf(out, "Backend config: %s\n", r.Backend.Config)
	fmt.Fprintf(out, "Backend health: %s\n", r.Backend.Health)
	if checkedBackend {
		if r.Backend.Error != "" {
			fmt.Fprintf(out, "Backend status: unhealthy (%s)\n", r.Backend.Error)
		} else {
			fmt.Fprintf(out, "Backend status: ok (%d)\n", r.Backend.Status)
		}
	}

	if r.Latest != nil {
		fmt.Fprintf(out, "Latest release: %s (%s, %s)\n", r.Latest.TagName, r.Latest.PublishedAt.Format(time.RFC3339), r.Latest.HTMLURL)
		if r.Latest.TagName != r.Version {
			fmt.Fprintf(out, "Update available: %s -> %s\n", r.Version, r.Latest.TagName)
		}
	}
}

// latestRelease reads the newest GitHub release through the same client
// core the backend requests use.
func latestRelease(ctx context.Context) (*release, error) {
	svc := core.ServiceCore{Type: "github", DisplayName: "GitHub", Timeout: releaseTimeout}

	resp, err := svc.MakeRequestWithContext(ctx, releasesURL, map[string]string{
		"Accept": "application/vnd.github+json",
	})
	if err != nil {
		return nil, err
	}

	body, err := svc.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var latest release
	if err := json.Unmarshal(body, &latest); err != nil {
		return nil, err
	}
	return &latest, nil
}
