package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/render/sink"
)

// inspectCommand creates the inspect command for checking rendered PDFs.
func (c *CLI) inspectCommand() *cobra.Command {
	var showText bool

	cmd := &cobra.Command{
		Use:   "inspect FILE.pdf",
		Short: "Validate a PDF and print its page count",
		Long: `Validate a PDF and print its page count. With --text the text of every page
is extracted, top to bottom, which is useful to check where the page breaks
fell.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					return errors.Wrap(errors.ErrCodeFileNotFound, err, "inspect %s", path)
				}
				return fmt.Errorf("read %s: %w", path, err)
			}

			info, err := sink.Verify(data)
			if err != nil {
				printError("%s is not a valid PDF", path)
				return err
			}
			printSuccess("%s is valid", path)
			printKeyValue("Pages", strconv.Itoa(info.Pages))
			printKeyValue("Size", fmt.Sprintf("%d bytes", info.Size))

			if !showText {
				return nil
			}
			pages, err := sink.ExtractText(data)
			if err != nil {
				return err
			}
			for i, text := range pages {
				printNewline()
				fmt.Fprintln(statusOut, StyleTitle.Render(fmt.Sprintf("Page %d", i+1)))
				fmt.Fprintln(statusOut, text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showText, "text", false, "print the extracted text of every page")
	return cmd
}
