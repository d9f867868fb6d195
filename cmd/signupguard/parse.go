package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signupguard/signupguard/internal/command"
	"github.com/signupguard/signupguard/internal/event"
	"github.com/signupguard/signupguard/internal/maintenance"
	"github.com/spf13/cobra"
)

// capture keeps the event a dry-run command would have forwarded.
type capture struct {
	events []event.Event
}

func (c *capture) Send(ctx context.Context, ev event.Event) error {
	c.events = append(c.events, ev)
	return nil
}

// dryLauncher reports maintenance scripts instead of starting them.
type dryLauncher struct {
	w io.Writer
}

func (d dryLauncher) Launch(ctx context.Context, script maintenance.Script) error {
	_, err := fmt.Fprintf(d.w, "would launch: %s\n", script)
	return err
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <command text>",
		Short: "Parse a chat command offline and print the resulting event",
		Example: "  signupguard parse signup rules add spam if email regex '^spam' then shadowban+notify\n" +
			"  signupguard parse 'signup rules test `{\"username\":\"u\",\"ip\":\"1.2.3.4\",\"finger_print\":null,\"user_agent\":\"ua\",\"email\":\"a@b.com\"}`'",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dryRun(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}
	return cmd
}

func dryRun(ctx context.Context, out io.Writer, text string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sink := &capture{}
	interp, err := command.New(sink, dryLauncher{w: out})
	if err != nil {
		return err
	}

	reply, err := interp.Handle(ctx, text)
	if err != nil {
		reply = command.ReplyFor(err)
		if _, werr := fmt.Fprintf(out, "error_kind: %s\nreply: %s\n", command.KindOf(err), reply); werr != nil {
			return werr
		}
		return errors.New("command rejected")
	}

	for _, ev := range sink.events {
		data, err := json.MarshalIndent(ev, "", "  ")
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "event: %s\n%s\n", ev.Type(), data); err != nil {
			return err
		}
	}
	if reply != "" {
		if _, err := fmt.Fprintf(out, "reply: %s\n", reply); err != nil {
			return err
		}
	}
	return nil
}
