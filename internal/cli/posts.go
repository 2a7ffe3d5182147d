package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dfryer1193/postbrowser/blog/domain"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the id and title of every post in the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.browser.Close()

			if err := a.browser.LoadManifest(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range a.page.Snapshot().Entries {
				fmt.Fprintf(out, "%s\t%s\n", e.ID, e.Title)
			}
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render one post to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.browser.Close()

			post, err := a.browser.SelectPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				_, err = out.Write(post.Content)
				return err
			}
			fmt.Fprintln(out, a.page.Snapshot().HTML(domain.AnchorPostContent))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source instead of HTML")

	return cmd
}
