package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/willibrandon/spsh/internal/lineedit"
)

// newKeysCmd creates the keys subcommand
func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Show the line editor key bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), renderBindings(lineedit.DefaultBindings()))
			return nil
		},
	}
}

// renderBindings draws the binding table as a tree of commands, each
// listing the chords bound to it in table order.
func renderBindings(bindings lineedit.Bindings) string {
	tree := treeprint.NewWithRoot("key bindings")

	branches := make(map[lineedit.CommandID]treeprint.Tree)
	for _, b := range bindings {
		branch, ok := branches[b.Command]
		if !ok {
			branch = tree.AddBranch(b.Command.String())
			branches[b.Command] = branch
		}
		branch.AddNode(b.Chord.String())
	}
	return tree.String()
}
