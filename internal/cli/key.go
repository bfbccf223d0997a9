package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mithrel/hinglish/internal/keys"
	"github.com/mithrel/hinglish/pkg/api"
)

const (
	msgInvalidKey = "Invalid API Key. Please check your key and try again."
	msgSaved      = "API Key saved and validated!"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the Gemini API key",
	}
	cmd.AddCommand(newKeySetCmd())
	cmd.AddCommand(newKeyShowCmd())
	cmd.AddCommand(newKeyDeleteCmd())
	cmd.AddCommand(newKeyValidateCmd())
	return cmd
}

func newKeySetCmd() *cobra.Command {
	var noValidate bool
	cmd := &cobra.Command{
		Use:   "set [key]",
		Short: "Validate and save the API key",
		Long: `Validate and save the API key.

Without an argument the key is read from a hidden prompt, or from stdin when
it is not a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			secret := firstArg(args)
			if secret == "" {
				var err error
				if secret, err = promptSecret(cmd, "Gemini API key: "); err != nil {
					return err
				}
			}
			secret = strings.TrimSpace(secret)
			if secret == "" {
				return reportNotice(cmd.ErrOrStderr(), api.ErrorResult("Please enter an API Key.").Result)
			}

			if !noValidate {
				ok, err := app.Gemini.Validate(cmd.Context(), secret)
				if err != nil {
					app.Log.Warn("key validation failed", zap.Error(err))
					return reportNotice(cmd.ErrOrStderr(), api.ErrorResult(msgInvalidKey).Result)
				}
				if !ok {
					return reportNotice(cmd.ErrOrStderr(), api.ErrorResult(msgInvalidKey).Result)
				}
			}
			if err := app.Keys.Put(keys.APIKeyName, secret); err != nil {
				if errors.Is(err, keys.ErrReadOnly) {
					return fmt.Errorf("keys.provider %q is read-only; set %s instead", app.Cfg.GetString("keys.provider"), app.Cfg.GetString("keys.env_var"))
				}
				return fmt.Errorf("save key: %w", err)
			}
			if noValidate {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API Key saved.")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), msgSaved)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "save without pinging the API")
	return cmd
}

func newKeyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored key, masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			secret, err := app.Keys.Get(keys.APIKeyName)
			if errors.Is(err, keys.ErrKeyNotFound) {
				return reportNotice(cmd.ErrOrStderr(), api.InfoResult(`API Key Missing! Run "hinglish key set" to set it up.`).Result)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), keys.Mask(secret))
			return nil
		},
	}
}

func newKeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored key",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Keys.Delete(keys.APIKeyName); err != nil {
				if errors.Is(err, keys.ErrReadOnly) {
					return fmt.Errorf("keys.provider %q is read-only; unset %s instead", app.Cfg.GetString("keys.provider"), app.Cfg.GetString("keys.env_var"))
				}
				return fmt.Errorf("delete key: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API Key deleted.")
			return nil
		},
	}
}

func newKeyValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the stored key against the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			secret, err := app.Keys.Get(keys.APIKeyName)
			if errors.Is(err, keys.ErrKeyNotFound) {
				return reportNotice(cmd.ErrOrStderr(), api.InfoResult(`API Key Missing! Run "hinglish key set" to set it up.`).Result)
			}
			if err != nil {
				return err
			}
			ok, err := app.Gemini.Validate(cmd.Context(), secret)
			if err != nil {
				return err
			}
			if !ok {
				return reportNotice(cmd.ErrOrStderr(), api.ErrorResult(msgInvalidKey).Result)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API Key is valid.")
			return nil
		},
	}
}

// promptSecret reads a line without echo when stdin is a terminal.
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read key: %w", err)
	}
	return line, nil
}
