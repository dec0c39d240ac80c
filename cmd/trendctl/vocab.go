package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the filter options of the loaded stats",
	Args:  cobra.NoArgs,
	RunE:  runVocab,
}

func init() {
	rootCmd.AddCommand(vocabCmd)
}

func runVocab(cmd *cobra.Command, _ []string) error {
	ds, _, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	v := ds.Vocabulary

	list := func(title string, values []string) {
		fmt.Fprintf(out, "%s (%d):\n", title, len(values))
		for _, val := range values {
			fmt.Fprintf(out, "  %s\n", val)
		}
		fmt.Fprintln(out)
	}
	list("Publishers", v.Publishers)
	list("Tags", v.Tags)
	list("Locations", v.Locations)

	fmt.Fprintf(out, "Date buckets (%d):\n", len(v.DateBuckets))
	for _, b := range v.DateBuckets {
		if b.Key == b.Label {
			fmt.Fprintf(out, "  %s\n", b.Key)
			continue
		}
		fmt.Fprintf(out, "  %-10s %s\n", b.Key, strings.TrimSpace(b.Label))
	}
	return nil
}
