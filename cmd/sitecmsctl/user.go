// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sitecms/internal/models"
	"sitecms/internal/store"
)

// minPasswordLen is the shortest password accepted for an operator.
const minPasswordLen = 8

var userFlags struct {
	email    string
	name     string
	password string
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage operator accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an operator",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(userFlags.password) < minPasswordLen {
			return fmt.Errorf("password must be at least %d characters", minPasswordLen)
		}
		return withUsers(func(users *store.UserStore) error {
			u, err := users.Create(strings.TrimSpace(userFlags.email), userFlags.password, userFlags.name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", u.Email, u.ID)
			return nil
		})
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List operators",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(func(users *store.UserStore) error {
			list, err := users.List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EMAIL\tNAME\t2FA\tCREATED")
			for _, u := range list {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", u.Email, u.DisplayName, u.TOTPEnabled, u.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		})
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Set an operator's password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(userFlags.password) < minPasswordLen {
			return fmt.Errorf("password must be at least %d characters", minPasswordLen)
		}
		return withUser(func(users *store.UserStore, u *models.User) error {
			if err := users.SetPassword(u.ID, userFlags.password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", u.Email)
			return nil
		})
	},
}

var userReset2FACmd = &cobra.Command{
	Use:   "reset-2fa",
	Short: "Remove an operator's second factor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(func(users *store.UserStore, u *models.User) error {
			if err := users.ResetTOTP(u.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "two-factor authentication reset for %s\n", u.Email)
			return nil
		})
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an operator",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(func(users *store.UserStore, u *models.User) error {
			if err := users.Delete(u.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", u.Email)
			return nil
		})
	},
}

func withUsers(fn func(users *store.UserStore) error) error {
	_, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(store.NewUserStore(db))
}

// withUser resolves --email to an existing operator.
func withUser(fn func(users *store.UserStore, u *models.User) error) error {
	return withUsers(func(users *store.UserStore) error {
		u, err := users.FindByEmail(strings.TrimSpace(userFlags.email))
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("no operator with email %q", userFlags.email)
		}
		return fn(users, u)
	})
}

func init() {
	for _, c := range []*cobra.Command{userAddCmd, userPasswdCmd, userReset2FACmd, userDeleteCmd} {
		c.Flags().StringVar(&userFlags.email, "email", "", "operator email")
		c.MarkFlagRequired("email")
	}
	for _, c := range []*cobra.Command{userAddCmd, userPasswdCmd} {
		c.Flags().StringVar(&userFlags.password, "password", "", "password")
		c.MarkFlagRequired("password")
	}
	userAddCmd.Flags().StringVar(&userFlags.name, "name", "", "display name used as commit author")

	userCmd.AddCommand(userAddCmd, userListCmd, userPasswdCmd, userReset2FACmd, userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}
