package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/2beens/fitcoach/internal/render"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const recentDays = 5

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session on this device",
	Long: `Log in with the coaching account. Without --password the password is
read from the first line of stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginEmail == "" {
			return fmt.Errorf("--email is required")
		}
		password := loginPassword
		if password == "" {
			fmt.Fprint(cmd.OutOrStdout(), "password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimSpace(line)
		}

		user, err := fitApp.Session.Login(cmd.Context(), loginEmail, password)
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the session stored on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := fitApp.Session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in athlete and the last days of training",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		user := fitApp.Session.CurrentUser()
		render.Profile(cmd.OutOrStdout(), user, calendar.RecentDays(time.Now(), recentDays, user.LatestWorkoutDates))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (read from stdin when empty)")
}
