package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shah/vscode-team/internal/settings"
)

// NewConfigctlCommand creates the configctl root command
func NewConfigctlCommand(deps Deps) *cobra.Command {
	a := newApp(deps)

	rootCmd := &cobra.Command{
		Use:           "configctl",
		Short:         "Visual Studio Settings Configuration Controller",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.bindRootFlags(rootCmd)

	rootCmd.AddCommand(newConfigInspectCommand(a))

	return rootCmd
}

// ExecuteConfigctl runs configctl against the real environment
func ExecuteConfigctl() error {
	deps := DefaultDeps("configctl")
	return execute(NewConfigctlCommand(deps), deps.Logger)
}

// ConfigInspectCommand prints one of the built-in settings tables
type ConfigInspectCommand struct {
	app         *app
	recommended bool
}

func newConfigInspectCommand(a *app) *cobra.Command {
	c := &ConfigInspectCommand{app: a}
	cmd := &cobra.Command{
		Use:   "inspect <kind> (settings|extensions)",
		Short: "Print the settings.json content or the extensions of a project kind",
		Long: fmt.Sprintf(`Print a built-in settings table as JSON.

<kind> is one of %v.`, settings.Kinds()),
		Args: cobra.ExactArgs(2),
		RunE: c.Run,
	}
	cmd.Flags().BoolVar(&c.recommended, "recommended", false, "Print extensions in the .vscode/extensions.json shape")
	return cmd
}

func (c *ConfigInspectCommand) Run(cmd *cobra.Command, args []string) error {
	kind, err := settings.ParseKind(args[0])
	if err != nil {
		return err
	}
	s, exts, err := settings.ForKind(kind)
	if err != nil {
		return err
	}

	switch args[1] {
	case "settings":
		return c.app.printJSON(s)
	case "extensions":
		if c.recommended {
			return c.app.printJSON(settings.Recommendations(exts))
		}
		return c.app.printJSON(exts)
	default:
		return fmt.Errorf("unknown table %q (expected settings or extensions)", args[1])
	}
}

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	fmt.Fprintln(a.Out, string(data))
	return nil
}
