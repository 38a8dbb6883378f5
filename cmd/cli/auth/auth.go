package auth

import (
	"fmt"

	"github.com/devhub/devconnect/cmd/cli/config"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

// Init registers authentication commands on the root command.
func Init(rootCmd *cobra.Command) {
	rootCmd.AddCommand(registerCmd(), loginCmd(), whoamiCmd(), logoutCmd())
}

func registerCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		Long:  "Create a DevConnect account and store the JWT token for subsequent commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Token string `json:"token"`
			}

			resp, err := resty.New().SetBaseURL(config.APIURL()).R().
				SetBody(map[string]string{"name": name, "email": email, "password": password}).
				SetResult(&out).
				Post("/api/users")
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}
			if out.Token == "" {
				return fmt.Errorf("register succeeded but no token returned")
			}

			if err := config.SaveToken(out.Token); err != nil {
				return err
			}

			fmt.Println("Account created. Token saved locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to DevConnect",
		Long:  "Authenticate with the DevConnect API and store a JWT token for subsequent commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Token string `json:"token"`
			}

			resp, err := resty.New().SetBaseURL(config.APIURL()).R().
				SetBody(map[string]string{"email": email, "password": password}).
				SetResult(&out).
				Post("/api/auth")
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}
			if out.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(out.Token); err != nil {
				return err
			}

			fmt.Println("Login successful. Token saved locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			var out struct {
				ID    int    `json:"id"`
				Name  string `json:"name"`
				Email string `json:"email"`
			}

			resp, err := resty.New().SetBaseURL(config.APIURL()).R().
				SetHeader("x-auth-token", token).
				SetResult(&out).
				Get("/api/auth")
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			fmt.Printf("%s <%s> (id %d)\n", out.Name, out.Email, out.ID)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
