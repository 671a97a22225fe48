package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/weft"
	"github.com/AnatoleLucet/weft/memhost"
)

var tagStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file.yaml>",
		Short: "Render a YAML description and print the host tree",
		Long: `Render a YAML description onto an in-memory host and print the
resulting tree, one node per line. Use "-" to read from stdin.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return runRender(rootOpts, data, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read description: %w", err)
	}
	return data, nil
}

func runRender(opts *RootOptions, data []byte, out, errOut io.Writer) error {
	node, err := decode(data)
	if err != nil {
		return err
	}

	container, err := render(node, opts.logger(errOut))
	if err != nil {
		return err
	}

	var style func(string) string
	if opts.Color {
		style = func(tag string) string { return tagStyle.Render(tag) }
	}
	for _, c := range container.Children {
		if _, err := io.WriteString(out, memhost.DumpStyled(c, style)); err != nil {
			return err
		}
	}
	return nil
}

// render runs a root to completion on a manual loop.
func render(node weft.Node, logger *slog.Logger) (container *memhost.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("render: %w", e)
				return
			}
			panic(r)
		}
	}()

	loop := weft.NewManualLoop(weft.NewManualClock())
	container = memhost.NewContainer()
	root := weft.CreateRoot(container, memhost.New(),
		weft.WithScheduler(weft.NewScheduler(weft.WithLoop(loop), weft.WithSchedulerLogger(logger))),
		weft.WithLogger(logger),
	)

	root.Render(node)
	loop.RunUntilIdle()
	logger.Debug("rendered", "nodes", count(container)-1)

	return container, nil
}

func count(n *memhost.Node) int {
	total := 1
	for _, c := range n.Children {
		total += count(c)
	}
	return total
}
