package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"caixa-be/internal/auth"
	"caixa-be/internal/ordernumber"
	"caixa-be/internal/utils"

	"github.com/spf13/cobra"
)

func newNextNumberCmd() *cobra.Command {
	var (
		userID uint
		peek   bool
	)

	cmd := &cobra.Command{
		Use:   "next-number",
		Short: "Issue the next order number of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return errors.New("--user is required")
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			svc := ordernumber.NewService(ordernumber.NewRepository(database))
			var number string
			if peek {
				number, err = svc.Current(cmd.Context(), userID)
			} else {
				number, err = svc.Next(cmd.Context(), userID)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), number)
			return nil
		},
	}

	cmd.Flags().UintVar(&userID, "user", 0, "user id")
	cmd.Flags().BoolVar(&peek, "current", false, "print the last issued number without incrementing")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		userID uint
		role   string
		email  string
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return errors.New("--user is required")
			}
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}

			token, err := auth.GenerateJWT(secret, userID, role, email, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().UintVar(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&role, "role", utils.RoleOwner, "role claim")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
