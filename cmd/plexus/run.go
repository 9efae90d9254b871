package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/casualjim/plexus"
	"github.com/casualjim/plexus/descriptor"
	"github.com/casualjim/plexus/messages"
	"github.com/casualjim/plexus/pkg/slogx"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type runOptions struct {
	taps  []string
	watch bool
	drain time.Duration
}

func newRunCmd(a *app) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [descriptors]",
		Short: "Build a graph and feed it messages from stdin",
		Long: `Build a graph from a descriptor file and publish every line read from stdin.

Each input line is "<topic> <value>". Messages published on a tapped topic are
printed to stdout.

Examples:
  # Add A and B, then increment the sum
  printf 'A 3\nB 4\n' | plexus run graph.conf --tap C --tap D

  # Rebuild the graph whenever the descriptor file changes
  plexus run graph.conf --tap D --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.descriptors(args)
			if err != nil {
				return err
			}
			return o.run(cmd.Context(), a.newGraph(), path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringSliceVar(&o.taps, "tap", nil, "print messages published on this topic (repeatable)")
	cmd.Flags().BoolVar(&o.watch, "watch", false, "rebuild the graph when the descriptor file changes")
	cmd.Flags().DurationVar(&o.drain, "drain", 200*time.Millisecond, "time to let agents settle after input ends")
	return cmd
}

func (o *runOptions) run(ctx context.Context, g *plexus.Graph, path string, in io.Reader, out io.Writer) error {
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("closing graph", slogx.Error(err))
		}
	}()

	if err := load(g, path); err != nil {
		return err
	}

	t := newTap(out)
	for _, name := range o.taps {
		g.Registry().Get(name).Subscribe(t)
	}

	if o.watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		w, err := watchDescriptors(watchCtx, path, func() {
			if err := load(g, path); err != nil {
				slog.Error("reload failed", slog.String("source", path), slogx.Error(err))
			}
		})
		if err != nil {
			return err
		}
		defer w.Close()
	}

	if err := feed(ctx, g, in); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-time.After(o.drain):
	}
	return nil
}

// load points g at path. Skipped descriptors are only logged, a rejected
// file is an error.
func load(g *plexus.Graph, path string) error {
	err := g.LoadFile(path)
	var fe *descriptor.FormatError
	if errors.As(err, &fe) {
		return err
	}
	if err != nil {
		slog.Warn("some descriptors were skipped", slog.String("source", path), slogx.Error(err))
	}
	if len(g.Agents()) == 0 {
		slog.Warn("graph has no agents", slog.String("source", path))
	}
	return nil
}

// feed publishes every "<topic> <value>" line of in until it ends or ctx is
// done.
func feed(ctx context.Context, g *plexus.Graph, in io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			publishLine(g, line)
		}
	}
}

func publishLine(g *plexus.Graph, line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	name, value, ok := strings.Cut(line, " ")
	if !ok {
		slog.Warn("ignoring input line, want \"<topic> <value>\"", slog.String("line", line))
		return
	}
	if err := g.Publish(name, messages.New(strings.TrimSpace(value))); err != nil {
		slog.Warn("publish failed", slogx.Topic(name), slogx.Error(err))
	}
}

// tap prints every message of the topics it is subscribed to.
type tap struct {
	mu    sync.Mutex
	out   io.Writer
	topic *color.Color
	value *color.Color
}

func newTap(out io.Writer) *tap {
	return &tap{
		out:   out,
		topic: color.New(color.FgCyan, color.Bold),
		value: color.New(color.FgGreen),
	}
}

func (t *tap) Name() string {
	return "tap"
}

func (t *tap) Callback(topic string, msg messages.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.out, "%s %s\n", t.topic.Sprint(topic), t.value.Sprint(msg.Text()))
	return err
}
