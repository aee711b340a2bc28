// Package cli implements the yushan command line client.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/version"
)

type contextKey string

const appContextKey contextKey = "yushanApp"

// skipApp marks commands that run without a client set.
const skipApp = "skip-app"

type globalOptions struct {
	configPath string
	baseURL    string
	output     string
	debug      bool
}

// NewRootCommand builds the yushan command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	var a *app

	root := &cobra.Command{
		Use:           "yushan",
		Short:         "Command line client for the Yushan novel platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch strings.ToLower(opts.output) {
			case formatTable, formatJSON:
			default:
				return fmt.Errorf("unsupported output format: %s", opts.output)
			}
			if cmd.Annotations[skipApp] == "true" {
				return nil
			}
			var err error
			a, err = newApp(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appContextKey, a))
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a != nil {
				a.Close()
				a = nil
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: $YUSHAN_CONFIG or ./yushan.yaml)")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "override api.base_url")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", formatTable, "output format (table, json)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newLoginCommand(),
		newRegisterCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
		newNovelsCommand(),
		newChaptersCommand(),
		newReviewsCommand(),
		newSearchCommand(),
		newSuggestCommand(),
		newVersionCommand(),
	)
	return root
}

func appFrom(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appContextKey).(*app)
	if !ok || a == nil {
		return nil, fmt.Errorf("client not initialized")
	}
	return a, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the client version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "yushan "+version.String())
			return err
		},
	}
}
