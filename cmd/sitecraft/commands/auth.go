package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your SiteCraft account",
	Long: `Manage your SiteCraft account and session.

Subcommands:
  login     Log in with email and password
  register  Create an account
  logout    End the current session
  whoami    Show the logged-in user
  profile   Show or update your profile`,
}

var (
	authEmail           string
	authPassword        string
	authUsername        string
	authFullName        string
	authConfirmPassword string
)

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE:  withApp(runAuthLogin),
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE:  withApp(runAuthRegister),
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE:  withApp(runAuthLogout),
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  withApp(runAuthWhoami),
}

var authProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	Long: `Show your profile, or update it when any of --username, --email or
--full-name is given.`,
	RunE: withApp(runAuthProfile),
}

func init() {
	authLoginCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	authLoginCmd.Flags().StringVar(&authPassword, "password", "", "Account password (prompted when omitted)")

	authRegisterCmd.Flags().StringVar(&authUsername, "username", "", "Username")
	authRegisterCmd.Flags().StringVar(&authEmail, "email", "", "Email")
	authRegisterCmd.Flags().StringVar(&authFullName, "full-name", "", "Full name")
	authRegisterCmd.Flags().StringVar(&authPassword, "password", "", "Password (prompted when omitted)")
	authRegisterCmd.Flags().StringVar(&authConfirmPassword, "confirm-password", "", "Password confirmation (prompted when omitted)")

	authProfileCmd.Flags().StringVar(&authUsername, "username", "", "New username")
	authProfileCmd.Flags().StringVar(&authEmail, "email", "", "New email")
	authProfileCmd.Flags().StringVar(&authFullName, "full-name", "", "New full name")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
	authCmd.AddCommand(authProfileCmd)
}

func runAuthLogin(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	in := bufio.NewReader(cmd.InOrStdin())
	email := authEmail
	if email == "" {
		email = ask(cmd.ErrOrStderr(), in, "Email: ")
	}
	password := authPassword
	if password == "" {
		password = ask(cmd.ErrOrStderr(), in, "Password: ")
	}

	sess, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if ok, err := a.out.structured(sess.User); ok {
		return err
	}
	a.out.success("Welcome back, %s!", displayName(sess.User))
	return nil
}

func runAuthRegister(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	in := bufio.NewReader(cmd.InOrStdin())
	input := types.RegisterInput{
		Username:        authUsername,
		Email:           authEmail,
		FullName:        authFullName,
		Password:        authPassword,
		ConfirmPassword: authConfirmPassword,
	}
	if input.Password == "" {
		input.Password = ask(cmd.ErrOrStderr(), in, "Password: ")
	}
	if input.ConfirmPassword == "" {
		input.ConfirmPassword = ask(cmd.ErrOrStderr(), in, "Confirm password: ")
	}

	sess, err := a.session.Register(ctx, input)
	if err != nil {
		return err
	}
	if ok, err := a.out.structured(sess.User); ok {
		return err
	}
	a.out.success("Account created. Welcome, %s!", displayName(sess.User))
	return nil
}

func runAuthLogout(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.out.success("Logged out")
	return nil
}

func runAuthWhoami(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	user := a.session.User()
	if user == nil {
		return types.UnauthorizedError("not logged in")
	}
	return a.out.user(user)
}

func runAuthProfile(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	var update types.ProfileUpdate
	flags := cmd.Flags()
	if flags.Changed("username") {
		update.Username = &authUsername
	}
	if flags.Changed("email") {
		update.Email = &authEmail
	}
	if flags.Changed("full-name") {
		update.FullName = &authFullName
	}

	if update.Username == nil && update.Email == nil && update.FullName == nil {
		user, err := a.session.Profile(ctx)
		if err != nil {
			return err
		}
		return a.out.user(user)
	}

	user, err := a.session.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	a.out.success("Profile updated")
	return a.out.user(user)
}

// ask prints prompt and reads one line. Input is echoed.
func ask(w io.Writer, in *bufio.Reader, prompt string) string {
	fmt.Fprint(w, prompt)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func displayName(u *types.User) string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
