package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devhub/devconnect/cmd/cli/config"
	"github.com/devhub/devconnect/cmd/cli/output"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

type profileView struct {
	ID             int      `json:"id"`
	UserID         int      `json:"user"`
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Skills         []string `json:"skills"`
	GithubUsername string   `json:"githubusername"`
}

// Init registers profile commands on the root command.
func Init(rootCmd *cobra.Command) {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage developer profiles",
	}

	profileCmd.AddCommand(
		meCmd(),
		listCmd(),
		viewCmd(),
		setupCmd(),
		githubCmd(),
		deleteAccountCmd(),
	)

	rootCmd.AddCommand(profileCmd)
}

func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show your own profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			resp, err := resty.New().SetBaseURL(config.APIURL()).R().
				SetHeader("x-auth-token", token).
				Get("/api/profile/me")
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			printJSON(resp.Body())
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all developer profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			var profiles []profileView

			resp, err := resty.New().SetBaseURL(config.APIURL()).R().
				SetResult(&profiles).
				Get("/api/profile")
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			rows := make([][]interface{}, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, []interface{}{
					p.UserID, p.Name, p.Status, p.Location, strings.Join(p.Skills, ", "),
				})
			}
			output.RenderTable([]string{"User", "Name", "Status", "Location", "Skills"}, rows)
			return nil
		},
	}
}

func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [user_id]",
		Short: "Show a developer's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := resty.New().SetBaseURL(config.APIURL()).R().
				Get("/api/profile/user/" + args[0])
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			printJSON(resp.Body())
			return nil
		},
	}
}

func setupCmd() *cobra.Command {
	var status, skills, company, website, location, bio, githubUsername string
	var youtube, twitter, facebook, linkedin string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create or update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			payload := map[string]string{
				"status":         status,
				"skills":         skills,
				"company":        company,
				"website":        website,
				"location":       location,
				"bio":            bio,
				"githubusername": githubUsername,
				"youtube":        youtube,
				"twitter":        twitter,
				"facebook":       facebook,
				"linkedin":       linkedin,
			}

			resp, err := resty.New().SetBaseURL(config.APIURL()).R().
				SetHeader("x-auth-token", token).
				SetBody(payload).
				Post("/api/profile")
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			fmt.Println("Profile saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "professional status, e.g. Developer")
	cmd.Flags().StringVar(&skills, "skills", "", "comma separated skills")
	cmd.Flags().StringVar(&company, "company", "", "company")
	cmd.Flags().StringVar(&website, "website", "", "website URL")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().StringVar(&bio, "bio", "", "short bio")
	cmd.Flags().StringVar(&githubUsername, "github", "", "GitHub username")
	cmd.Flags().StringVar(&youtube, "youtube", "", "YouTube URL")
	cmd.Flags().StringVar(&twitter, "twitter", "", "Twitter URL")
	cmd.Flags().StringVar(&facebook, "facebook", "", "Facebook URL")
	cmd.Flags().StringVar(&linkedin, "linkedin", "", "LinkedIn URL")
	cmd.MarkFlagRequired("status")
	cmd.MarkFlagRequired("skills")

	return cmd
}

func githubCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "github [username]",
		Short: "Show a user's latest GitHub repos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var repos []struct {
				Name        string `json:"name"`
				HTMLURL     string `json:"html_url"`
				Stargazers  int    `json:"stargazers_count"`
				Description string `json:"description"`
			}

			resp, err := resty.New().SetBaseURL(config.APIURL()).R().
				SetResult(&repos).
				Get("/api/profile/github/" + args[0])
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			rows := make([][]interface{}, 0, len(repos))
			for _, r := range repos {
				rows = append(rows, []interface{}{r.Name, r.Stargazers, r.HTMLURL})
			}
			output.RenderTable([]string{"Repo", "Stars", "URL"}, rows)
			return nil
		},
	}
}

func deleteAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-account",
		Short: "Delete your account, profile, and posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			resp, err := resty.New().SetBaseURL(config.APIURL()).R().
				SetHeader("x-auth-token", token).
				Delete("/api/profile")
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			config.ClearToken()
			fmt.Println("Account deleted.")
			return nil
		},
	}
}

func printJSON(body []byte) {
	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
