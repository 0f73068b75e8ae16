package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/quantumx/qvr-backend/restapi/modules/auth"
	"github.com/spf13/cobra"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for the admin users file",
	Long: `Print a bcrypt hash suitable for the password_hash field of the admin users file.
The password is read from the first line of stdin when not given as an argument.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		if err := auth.ValidatePasswordStrength(password); err != nil {
			return err
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
