package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/casualjim/plexus/agent"
	"github.com/casualjim/plexus/descriptor"
	"github.com/casualjim/plexus/topic"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errInvalidDescriptors = errors.New("descriptor file has problems")

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [descriptors]",
		Short: "Check a descriptor file",
		Long: `Parse a descriptor file and try to build every agent it describes against
a scratch topic registry. Each descriptor is reported as ok or with the reason
it would be skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.descriptors(args)
			if err != nil {
				return err
			}
			return validate(cmd.OutOrStdout(), path, agent.Global)
		},
	}
}

func validate(out io.Writer, path string, factories *agent.Factories) error {
	descs, err := descriptor.ParseFile(path)
	if err != nil {
		return err
	}

	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	reg := topic.NewRegistry()
	var problems int
	for i, desc := range descs {
		a, err := factories.Create(reg, desc.Type, desc.Subscriptions, desc.Publications)
		if err != nil {
			problems++
			fmt.Fprintf(out, "%s %d: %s: %v\n", bad("FAIL"), i, desc, err)
			continue
		}
		_ = a.Close()
		fmt.Fprintf(out, "%s   %d: %s\n", ok("OK"), i, desc)
	}

	fmt.Fprintf(out, "%d descriptors, %d problems\n", len(descs), problems)
	if problems > 0 {
		return errInvalidDescriptors
	}
	return nil
}
