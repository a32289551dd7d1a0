package main

import (
	"github.com/spf13/cobra"
)

// cliFlags holds every flag of the root command.
type cliFlags struct {
	cookie     string
	outputDir  string
	urlsFile   string
	configPath string
	setup      bool
	listTiers  bool
	verbose    bool
	logFormat  string
	logFile    string
}

func newRootCommand(env environment) *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:   "patreonfetch [urls...]",
		Short: "Download subscriber content with patreon-dl",
		Long: "patreonfetch drives patreon-dl once per URL with a generated configuration.\n" +
			"Run it without arguments for the interactive mode.",
		Example: "  patreonfetch --setup                                  # interactive configuration\n" +
			"  patreonfetch --cookie \"abc123\" URL1 URL2              # download with a cookie\n" +
			"  patreonfetch --urls-file urls.txt                      # URLs from a file\n" +
			"  patreonfetch --list-tiers creator1 creator2            # list creator tiers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newCommandContext(cmd, flags, env)
			if err != nil {
				return err
			}
			if cmd.Flags().NFlag() == 0 && len(args) == 0 {
				return ctx.runInteractive(cmd.Context())
			}
			return ctx.runFlags(cmd.Context(), args)
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&flags.cookie, "cookie", "c", "", "Session cookie (session_id value); defaults to $"+credentialEnv)
	f.StringVarP(&flags.outputDir, "output-dir", "o", "", "Output directory root")
	f.StringVarP(&flags.urlsFile, "urls-file", "f", "", "File with one URL per line")
	f.StringVar(&flags.configPath, "config", "", "Settings file path")
	f.BoolVar(&flags.setup, "setup", false, "Interactive configuration")
	f.BoolVar(&flags.listTiers, "list-tiers", false, "List tiers of the given creators")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose wrapper logging")
	f.StringVar(&flags.logFormat, "log-format", "console", "Wrapper log format (console or json)")
	f.StringVar(&flags.logFile, "log-file", "", "Also append wrapper logs to this file")

	return rootCmd
}
