package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pluginbuilder/internal/builder"
	"pluginbuilder/internal/scaffold"
)

// buildRootCmdWith constructs the command tree bound to cfg.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	var log zerolog.Logger
	root := &cobra.Command{
		Use:           "pluginbuilder",
		Short:         "Scaffold, build and hot-reload TouchDesigner C++ plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	root.PersistentFlags().StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Config file (.yaml, .toml or .json; defaults PLUGINBUILDER_CONFIG)")
	root.PersistentFlags().StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults PLUGINBUILDER_LOG_LEVEL, then log_level from the config file, then info)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		log = newLogger(cfg.LogLvl, cmd.ErrOrStderr())
	}

	// open loads the config and builder for a subcommand.
	open := func(cmd *cobra.Command) (*builder.Builder, error) {
		c, err := loadConfig(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.LogLvl == "" {
			log = newLogger(logLevel(cfg.LogLvl, c), cmd.ErrOrStderr())
		}
		return newBuilder(c, log)
	}

	var (
		project     string
		cors        bool
		corsOrigins []string
	)
	serveCmd := &cobra.Command{Use: "serve", Short: "Run the local control API for the host", Example: "  pluginbuilder serve --addr 127.0.0.1:9980 --project Foo", RunE: func(cmd *cobra.Command, args []string) error {
		b, err := open(cmd)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), b, log, serveOptions{project: project, cors: cors, corsOrigins: corsOrigins})
	}}
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address (defaults PLUGINBUILDER_ADDR or 127.0.0.1:9980)")
	serveCmd.Flags().StringVar(&project, "project", "", "Open this project and build it at startup")
	serveCmd.Flags().BoolVar(&cors, "cors", envBool("PLUGINBUILDER_CORS", false), "Enable CORS for a browser-based host panel")
	serveCmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", nil, "Allowed CORS origins (default localhost)")
	root.AddCommand(serveCmd)

	var (
		template string
		timeout  time.Duration
	)
	createCmd := &cobra.Command{Use: "create <name>", Short: "Create a plugin project, configure and compile it", Example: "  pluginbuilder create Foo --template BasicCHOP", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := scaffold.ParseKind(template)
		if err != nil {
			return err
		}
		b, err := open(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout(cmd.Context(), timeout)
		defer cancel()
		desc, err := b.Create(ctx, args[0], kind)
		if err != nil {
			return err
		}
		st := newStyles(cmd.OutOrStdout())
		if err := streamUntilExit(ctx, b, cmd.OutOrStdout(), st); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), st.done("created %s (%s) in %s", desc.Name, desc.OpType, desc.Dir))
		return nil
	}}
	createCmd.Flags().StringVarP(&template, "template", "t", string(scaffold.BasicCHOP), "Project template; see 'pluginbuilder templates'")
	createCmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits for the build)")
	root.AddCommand(createCmd)

	var clean, reloadAfter bool
	buildCmd := &cobra.Command{Use: "build <name>", Short: "Configure and compile a project, streaming the build output", Example: "  pluginbuilder build Foo --clean", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		b, err := open(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout(cmd.Context(), timeout)
		defer cancel()
		if _, err := b.Open(ctx, args[0]); err != nil {
			return err
		}
		defer b.Close()
		if clean {
			if _, err := b.Clean(); err != nil {
				return err
			}
		}
		if _, err := b.BuildAndCompile(); err != nil {
			return err
		}
		st := newStyles(cmd.OutOrStdout())
		if err := streamUntilExit(ctx, b, cmd.OutOrStdout(), st); err != nil {
			return err
		}
		if reloadAfter {
			p, err := b.Reload()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), st.done("reloaded %s", p))
		}
		return nil
	}}
	buildCmd.Flags().BoolVar(&clean, "clean", false, "Run ninja clean first")
	buildCmd.Flags().BoolVar(&reloadAfter, "reload", false, "Copy the built library into the plugins folder afterwards")
	buildCmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits for the build)")
	root.AddCommand(buildCmd)

	// fileAction opens a project and runs one of its file operations.
	fileAction := func(verb string, fn func(*builder.Builder) (string, error)) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			b, err := open(cmd)
			if err != nil {
				return err
			}
			defer b.Close()
			if _, err := b.Open(cmd.Context(), args[0]); err != nil {
				return err
			}
			p, err := fn(b)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), newStyles(cmd.OutOrStdout()).done("%s %s", verb, p))
			return nil
		}
	}
	root.AddCommand(&cobra.Command{Use: "reload <name>", Short: "Copy the built library into the plugins folder", Args: cobra.ExactArgs(1),
		RunE: fileAction("reloaded", (*builder.Builder).Reload)})
	root.AddCommand(&cobra.Command{Use: "install <name>", Short: "Install the plugin into ~/Documents/Derivative/Plugins", Args: cobra.ExactArgs(1),
		RunE: fileAction("installed", (*builder.Builder).Install)})

	root.AddCommand(&cobra.Command{Use: "projects", Short: "List plugin projects", RunE: func(cmd *cobra.Command, args []string) error {
		b, err := open(cmd)
		if err != nil {
			return err
		}
		ps, err := b.Projects()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), newStyles(cmd.OutOrStdout()).projects(ps))
		return nil
	}})
	root.AddCommand(&cobra.Command{Use: "templates", Short: "List project templates", RunE: func(cmd *cobra.Command, args []string) error {
		b, err := open(cmd)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), newStyles(cmd.OutOrStdout()).templates(b.Templates()))
		return nil
	}})

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	}})
	root.AddCommand(completionCmd)

	return root
}
