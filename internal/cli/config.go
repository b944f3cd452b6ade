package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/errors"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or create the avatar configuration",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var write, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Print the default configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			if err := avatar.DefaultConfig().WriteTOML(&buf); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
			}
			if !write {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			dir, err := configDir()
			if err != nil {
				return fmt.Errorf("get config dir: %w", err)
			}
			path := filepath.Join(dir, configFile)
			if fileExists(path) && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s exists (use --force to overwrite)", path)
			}
			if err := writeArtifact(path, buf.Bytes()); err != nil {
				return err
			}
			printSuccess("Wrote default config")
			printFile(path)
			printNextStep("Check the effective settings", appName+" config show")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write to the user config file instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var style styleFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after file and flag overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := style.load(cmd)
			if err != nil {
				return err
			}
			return cfg.WriteTOML(cmd.OutOrStdout())
		},
	}

	style.register(cmd)
	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := configDir()
			if err != nil {
				return fmt.Errorf("get config dir: %w", err)
			}
			path := filepath.Join(dir, configFile)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				printDetail("not created yet; run %s config init --write", appName)
			}
			return nil
		},
	}
}
