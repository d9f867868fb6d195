package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/signupguard/signupguard/internal/command"
	"github.com/signupguard/signupguard/internal/rules"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammar",
		Short: "Print the accepted chat command grammar",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), renderGrammar())
			return err
		},
	}
}

func renderGrammar() string {
	var b strings.Builder
	b.WriteString("Commands (prefix with the bot mention):\n")
	b.WriteString("  status\n")
	b.WriteString("  upgrade\n")
	b.WriteString("  restart\n")
	b.WriteString("  signup rules add <name> <if> <kind> <check> <value> then <action>[+<action>...] [nodelay]\n")
	b.WriteString("  signup rules show <name>\n")
	b.WriteString("  signup rules remove <name>\n")
	b.WriteString("  signup rules disable-re <regex>\n")
	b.WriteString("  signup rules enable-re <regex>\n")
	b.WriteString("  signup rules list\n")
	b.WriteString("  signup rules test `<user json>`\n")

	fmt.Fprintf(&b, "\nConditions: %s\n", strings.Join(command.Conjunctions(), ", "))

	b.WriteString("\nCriteria:\n")
	for _, kc := range rules.CriterionKinds {
		if len(kc.Checks) == 0 {
			fmt.Fprintf(&b, "  %s: source in backticks, e.g. lua `return true`\n", kc.Kind)
			continue
		}
		checks := make([]string, 0, len(kc.Checks))
		for _, c := range kc.Checks {
			checks = append(checks, string(c))
		}
		fmt.Fprintf(&b, "  %s: %s\n", kc.Kind, strings.Join(checks, ", "))
	}

	actions := make([]string, 0, len(rules.Actions))
	for _, a := range rules.Actions {
		actions = append(actions, string(a))
	}
	fmt.Fprintf(&b, "\nActions: %s\n", strings.Join(actions, ", "))

	return b.String()
}
