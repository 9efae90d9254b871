package main

import (
	"fmt"
	"io"

	"github.com/casualjim/plexus"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newTopicsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "topics [descriptors]",
		Short: "Show the topics a graph creates",
		Long: `Build the graph of a descriptor file and print every topic it creates as
JSON, with its subscribers, publishers and last message, sorted by name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.descriptors(args)
			if err != nil {
				return err
			}
			g := a.newGraph()
			defer g.Close()
			if err := load(g, path); err != nil {
				return err
			}
			return printTopics(cmd.OutOrStdout(), g)
		},
	}
}

func printTopics(out io.Writer, g *plexus.Graph) error {
	data, err := json.MarshalIndent(g.Registry().Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
