// Package auth implements the command that checks the captured HAR trace
package auth

import (
	"errors"
	"fmt"

	"fjacquet/revol-ver/cmd/root"
	"fjacquet/revol-ver/internal/parsererror"
	"fjacquet/revol-ver/internal/validation"

	"github.com/spf13/cobra"
)

// Cmd represents the auth command
var Cmd = &cobra.Command{
	Use:   "auth",
	Short: "Check that the HAR trace holds usable API credentials",
	Long: `Read the browser HAR trace from the input directory and report whether it
contains a transactions request with a cookie, a device id and a pocket id.
Only redacted values are printed.`,
	RunE: authFunc,
}

func authFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return errors.New("application is not initialized")
	}

	tracePath := c.TracePath()
	if err := validation.IsValidPath(tracePath); err != nil {
		return fmt.Errorf("HAR trace not available: %w", err)
	}

	creds, found, err := c.GetExtractor().ExtractFile(tracePath)
	if err != nil {
		return err
	}
	if !found {
		return &parsererror.AuthNotFoundError{TracePath: tracePath}
	}

	redacted := creds.Redacted()
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Credentials found in %s\n", tracePath)
	_, _ = fmt.Fprintf(out, "  cookie:    %s\n", redacted.Cookie)
	_, _ = fmt.Fprintf(out, "  device id: %s\n", redacted.DeviceID)
	_, _ = fmt.Fprintf(out, "  pocket id: %s\n", redacted.PocketID)
	return nil
}
