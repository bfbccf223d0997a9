package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/hinglish/internal/config"
	"github.com/mithrel/hinglish/internal/editor"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		// Config commands work on the file itself and must run even when
		// the current config cannot be wired.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigEditCmd())
	return cmd
}

// configPath is --config when given, else the default location.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Root().PersistentFlags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

func newConfigGenerateCmd() *cobra.Command {
	var out string
	var overwrite bool
	var update bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a default config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = configPath(cmd)
			}
			if overwrite && update {
				return fmt.Errorf("choose either --overwrite or --update")
			}
			return writeConfigFile(cmd, out, overwrite, update)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path for config.toml")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing config (creates a backup)")
	cmd.Flags().BoolVar(&update, "update", false, "merge defaults into existing config (creates a backup)")
	return cmd
}

func writeConfigFile(cmd *cobra.Command, out string, overwrite, update bool) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
		return err
	}

	exists := fileExists(out)
	if exists && !overwrite && !update {
		return fmt.Errorf("config already exists at %s; use --overwrite to replace (this will delete your current config) or --update to merge defaults", out)
	}

	content := ""
	if update && exists {
		data, err := os.ReadFile(out)
		if err != nil {
			return err
		}
		updated, changed := config.UpdateTOML(string(data))
		if !changed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config already up to date: %s\n", out)
			return nil
		}
		content = updated
	} else {
		content = config.RenderDefaultTOML()
	}

	var backupPath string
	if exists && (overwrite || update) {
		var err error
		backupPath, err = backupConfig(out)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(out, []byte(content), 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	if backupPath != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backup: %s\n", backupPath)
	}
	return nil
}

func backupConfig(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := path + ".bak"
	if fileExists(backup) {
		backup = fmt.Sprintf("%s.bak-%s", path, time.Now().Format("20060102-150405"))
	}
	if err := os.WriteFile(backup, data, 0o600); err != nil {
		return "", err
	}
	return backup, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one option in the config file, keeping comments",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var out []string
			for _, opt := range config.GetConfigOptions() {
				out = append(out, opt.Key)
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseOptionValue(args[0], args[1])
			if err != nil {
				return err
			}
			path := configPath(cmd)
			existing, err := os.ReadFile(path)
			if err != nil && !os.IsNotExist(err) {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return err
			}
			out := config.SetOption(string(existing), args[0], value)
			if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], path)
			return nil
		},
	}
	return cmd
}

// parseOptionValue converts raw to the type of key's default.
func parseOptionValue(key, raw string) (any, error) {
	var opt *config.ConfigOption
	for _, o := range config.GetConfigOptions() {
		if o.Key == key {
			opt = &o
			break
		}
	}
	if opt == nil {
		return nil, fmt.Errorf("unknown option %q", key)
	}
	if key == "target_language" {
		return config.ResolveLanguage(raw)
	}
	switch opt.Default.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return b, nil
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	case float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return f, nil
	case time.Duration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return d, nil
	case []string:
		var out []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the config file in $EDITOR and check it",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(cmd)
			_, changed, err := editor.Edit(cmd.Context(), path, []byte(config.RenderDefaultTOML()))
			if err != nil {
				return err
			}
			if !changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No changes to %s\n", path)
				return nil
			}
			if err := checkConfigFile(cmd, path); err != nil {
				return fmt.Errorf("%s saved but %w", path, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", path)
			return nil
		},
	}
}

// checkConfigFile loads path on its own and validates the result.
func checkConfigFile(cmd *cobra.Command, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("cannot be parsed: %w", err)
	}
	if err := config.Load(cmd.Context(), v); err != nil {
		return err
	}
	return config.CheckConfigValidity(v)
}
