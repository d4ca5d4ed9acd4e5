package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"parsifly/pkg/auth"
	"parsifly/pkg/profile"
	"parsifly/pkg/ui"
)

var authKeyFromStdin bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage platform API keys",
	Long: `Manage API keys for the first-party platform APIs.

Keys are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables PARSIFLY_{PLATFORM}_API_KEY (read-only)

A platform with a key is looked up through its API before the fallback
source; one without a key starts from the cache.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set <platform>",
	Short: "Store an API key for a platform",
	Example: `  # Interactive, the key is not echoed
  parsifly auth set tiktok

  # From a pipe
  echo "$KEY" | parsifly auth set youtube --stdin`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthSet,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove <platform>",
	Short: "Remove the stored API key for a platform",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored API keys (masked)",
	RunE:  runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authRemoveCmd)
	authCmd.AddCommand(authListCmd)

	authSetCmd.Flags().BoolVar(&authKeyFromStdin, "stdin", false, "read the key from standard input")
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	p, err := profile.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	manager, err := auth.NewManager("")
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var key string
	if authKeyFromStdin {
		key, err = readLine(os.Stdin)
	} else {
		if !ui.Quiet() {
			auth.WriteKeyGuide(os.Stdout, p)
		}
		fmt.Printf("🔑 %s API key: ", p)
		key, err = readSecret()
	}
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if key == "" {
		return fmt.Errorf("API key is required")
	}

	if err := manager.Store(&auth.Credential{Platform: p, APIKey: key}); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("API key for %s stored (%s)", p, auth.Mask(key)))
	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	p, err := profile.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	manager, err := auth.NewManager("")
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(p); err != nil {
		return err
	}
	ui.PrintSuccess("API key removed for " + string(p))
	if os.Getenv(auth.EnvVar(p)) != "" {
		ui.PrintWarning(auth.EnvVar(p) + " is still set in the environment")
	}
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager("")
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	creds, err := manager.List()
	if err != nil {
		return err
	}
	if len(creds) == 0 {
		ui.PrintWarning("No API keys stored. Add one with 'parsifly auth set <platform>'")
		return nil
	}

	for _, cred := range creds {
		c := auth.Sanitize(cred)
		modified := "environment"
		if !c.LastModified.IsZero() {
			modified = c.LastModified.Format(time.RFC822)
		}
		ui.PrintData("%-10s %-14s %s\n", c.Platform, c.APIKey, ui.Dim(modified))
	}
	return nil
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}
	return readLine(os.Stdin)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
