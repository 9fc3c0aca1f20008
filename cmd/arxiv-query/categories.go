// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [prefix]",
	Short: "List the subject categories accepted by --category",
	Long: `Categories prints the closed set of subject categories that --category
validates against, optionally filtered by a prefix such as "cs." or "eess.".
Other codes can still be queried with --raw-category.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		if n := listCategories(cmd.OutOrStdout(), prefix); n == 0 {
			return fmt.Errorf("no categories match %q", prefix)
		}
		return nil
	},
}

func listCategories(w io.Writer, prefix string) int {
	n := 0
	for _, c := range types.KnownCategories() {
		if !strings.HasPrefix(string(c), prefix) {
			continue
		}
		fmt.Fprintf(w, "%-10s  %s\n", c, c.Description())
		n++
	}
	return n
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
