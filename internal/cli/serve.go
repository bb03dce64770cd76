package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicsheet/pkg/api"
)

// serveCommand creates the serve command for the web form.
func (c *CLI) serveCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the topic summary form over HTTP",
		Long: `Serve the topic summary form over HTTP.

Visitors get an owner cookie on first visit; drafts they save are scoped to
it. Submitting the form downloads the PDF. Use --drafts redis or mongo when
running more than one instance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()

			store, err := cfg.OpenDrafts(ctx)
			if err != nil {
				return fmt.Errorf("open draft store: %w", err)
			}
			defer store.Close()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			render, err := c.renderDefaults()
			if err != nil {
				return err
			}

			srv, err := api.New(cfg.Server, store, runner, render, c.Logger)
			if err != nil {
				return err
			}

			printSuccess("Serving on %s", StyleHighlight.Render("http://"+cfg.Server.Addr))
			printDetail("Drafts: %s", backendName(cfg.Drafts.Backend))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default: localhost:8080)")
	cmd.Flags().String("header-logo", "", "image drawn in the header band of every page")
	cmd.Flags().String("footer-logo", "", "image drawn at the bottom left of the last page")
	cmd.Flags().String("cache", "", "render cache: file, redis, none")
	cmd.Flags().String("cache-url", "", "redis URL for the render cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func backendName(b string) string {
	if b == "" {
		return "file"
	}
	return b
}
