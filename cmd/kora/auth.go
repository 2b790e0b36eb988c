package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/browser"
	"github.com/koraenergy/kora-control/internal/config"
	"github.com/koraenergy/kora-control/internal/domain"
)

var (
	loginUsername string

	registerUsername string
	registerEmail    string
	registerPhone    string
	registerRole     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long: `Signs in with your username and password. The password is read without
echo, or as one line from stdin when piped.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a customer account",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username (prompted when omitted)")

	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "username (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerPhone, "phone", "", "phone number")
	registerCmd.Flags().StringVar(&registerRole, "role", domain.DefaultRole, "account role")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := setup(false, quietNavigator)
	if err != nil {
		return err
	}
	defer e.Close()

	username, err := valueOrPrompt(loginUsername, "Username")
	if err != nil {
		return err
	}
	password, err := readPassword("Password")
	if err != nil {
		return err
	}
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	creds := domain.Credentials{Username: username, Password: password}
	if err := e.client.Login(cmd.Context(), creds); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			return fmt.Errorf("invalid username or password")
		}
		return fmt.Errorf("signing in: %w", err)
	}

	fmt.Printf("Signed in as %s\n", username)
	if c, ok := e.sess.Claims(); ok && !c.ExpiresAt.IsZero() {
		fmt.Printf("Session expires %s\n", humanize.Time(c.ExpiresAt))
	}
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	e, err := setup(false, cliNavigator)
	if err != nil {
		return err
	}
	defer e.Close()

	reg := domain.Registration{Role: registerRole, PhoneNumber: registerPhone}
	if reg.Username, err = valueOrPrompt(registerUsername, "Username"); err != nil {
		return err
	}
	if reg.Email, err = valueOrPrompt(registerEmail, "Email"); err != nil {
		return err
	}
	if reg.Password, err = readPassword("Password"); err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password")
	if err != nil {
		return err
	}
	if reg.Password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	if reg.Username == "" || reg.Email == "" || reg.Password == "" {
		return fmt.Errorf("username, email and password are required")
	}

	if err := e.client.Register(cmd.Context(), reg); err != nil {
		var se *api.StatusError
		if errors.As(err, &se) && api.Classify(err) == api.KindClient {
			return fmt.Errorf("registration rejected: %s", se.Body)
		}
		return fmt.Errorf("registering: %w", err)
	}
	fmt.Printf("Account %s created. Run `kora login` to sign in.\n", reg.Username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := setup(false, quietNavigator)
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.sess.LoggedIn() {
		fmt.Println("Not signed in")
		return nil
	}
	if err := e.client.Logout(); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	fmt.Println("Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := setup(false, cliNavigator)
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.sess.LoggedIn() {
		return fmt.Errorf("not signed in (run `kora login`)")
	}
	c, ok := e.sess.Claims()
	if !ok {
		fmt.Println("Signed in (the session token carries no account details)")
		return nil
	}

	fmt.Printf("%-10s %s\n", "Username", orDash(c.Username))
	fmt.Printf("%-10s %s\n", "User ID", orDash(c.UserID))
	fmt.Printf("%-10s %s\n", "Role", orDash(c.Role))
	switch {
	case c.ExpiresAt.IsZero():
		fmt.Printf("%-10s %s\n", "Expires", "never")
	case c.Expired(time.Now()):
		fmt.Printf("%-10s %s (expired)\n", "Expires", humanize.Time(c.ExpiresAt))
	default:
		fmt.Printf("%-10s %s\n", "Expires", humanize.Time(c.ExpiresAt))
	}
	return nil
}

// quietNavigator is for login and logout, where a 401 or the return to
// the sign-in screen is the expected outcome rather than news.
func quietNavigator(config.Config, *zap.Logger) api.Navigator {
	return browser.Printer{W: os.Stdout}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
