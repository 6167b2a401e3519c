package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/words"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List categories and difficulty profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tLABEL\tWORDS")
			stats := words.Stats()
			for _, c := range game.Categories() {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", c, c.Label(), stats[c])
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "DIFFICULTY\tWORDS\tTIME\tDIRECTIONS")
			for _, d := range game.Difficulties() {
				dirs := make([]string, 0, 8)
				for _, x := range d.Directions() {
					dirs = append(dirs, x.String())
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", d, d.WordCount(), d.TimeLimit().Round(time.Second), strings.Join(dirs, ","))
			}
			return tw.Flush()
		},
	})
}
