package main

import (
	"fmt"
	"os"

	"github.com/devhub/devconnect/cmd/cli/auth"
	"github.com/devhub/devconnect/cmd/cli/posts"
	"github.com/devhub/devconnect/cmd/cli/profile"
	"github.com/devhub/devconnect/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.Init(rootCmd)
	profile.Init(rootCmd)
	posts.Init(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
