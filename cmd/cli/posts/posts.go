package posts

import (
	"fmt"
	"time"

	"github.com/devhub/devconnect/cmd/cli/config"
	"github.com/devhub/devconnect/cmd/cli/output"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

type postView struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Text     string    `json:"text"`
	Likes    []any     `json:"likes"`
	Comments []any     `json:"comments"`
	Date     time.Time `json:"date"`
}

// Init registers post commands on the root command.
func Init(rootCmd *cobra.Command) {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Read and write posts",
	}

	postsCmd.AddCommand(
		listCmd(),
		createCmd(),
		deleteCmd(),
		likeCmd(),
		unlikeCmd(),
		commentCmd(),
		uncommentCmd(),
	)

	rootCmd.AddCommand(postsCmd)
}

func authedRequest() (*resty.Request, error) {
	token, err := config.LoadToken()
	if err != nil {
		return nil, fmt.Errorf("please login first")
	}
	return resty.New().SetBaseURL(config.APIURL()).R().
		SetHeader("x-auth-token", token), nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := authedRequest()
			if err != nil {
				return err
			}

			var posts []postView
			resp, err := req.SetResult(&posts).Get("/api/posts")
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			rows := make([][]interface{}, 0, len(posts))
			for _, p := range posts {
				text := p.Text
				if len(text) > 60 {
					text = text[:57] + "..."
				}
				rows = append(rows, []interface{}{
					p.ID, p.Name, text, len(p.Likes), len(p.Comments), p.Date.Format("2006-01-02 15:04"),
				})
			}
			output.RenderTable([]string{"ID", "Author", "Text", "Likes", "Comments", "Date"}, rows)
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := authedRequest()
			if err != nil {
				return err
			}

			var post postView
			resp, err := req.
				SetBody(map[string]string{"text": text}).
				SetResult(&post).
				Post("/api/posts")
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			fmt.Printf("Posted (id %d).\n", post.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "post text")
	cmd.MarkFlagRequired("text")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete your post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := authedRequest()
			if err != nil {
				return err
			}

			resp, err := req.Delete("/api/posts/" + args[0])
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			fmt.Println("Post removed.")
			return nil
		},
	}
}

func likeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like [id]",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := authedRequest()
			if err != nil {
				return err
			}

			resp, err := req.Put("/api/posts/like/" + args[0])
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			fmt.Println("Liked.")
			return nil
		},
	}
}

func unlikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlike [id]",
		Short: "Remove your like from a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := authedRequest()
			if err != nil {
				return err
			}

			resp, err := req.Put("/api/posts/unlike/" + args[0])
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			fmt.Println("Unliked.")
			return nil
		},
	}
}

func commentCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "comment [id]",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := authedRequest()
			if err != nil {
				return err
			}

			resp, err := req.
				SetBody(map[string]string{"text": text}).
				Post("/api/posts/comment/" + args[0])
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			fmt.Println("Comment added.")
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "comment text")
	cmd.MarkFlagRequired("text")

	return cmd
}

func uncommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uncomment [post_id] [comment_id]",
		Short: "Delete your comment from a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := authedRequest()
			if err != nil {
				return err
			}

			resp, err := req.Delete("/api/posts/comment/" + args[0] + "/" + args[1])
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("API error: %s", resp.String())
			}

			fmt.Println("Comment removed.")
			return nil
		},
	}
}
