package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/insight"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question about the filtered stats",
	Long:  "Answers questions such as \"how many\", \"latest\", \"earliest\", \"which company\" or \"which topic\" over the stats left by the facet flags. Without a question it prints the summary.",
	RunE:  runAsk,
}

var askFacets facetFlags

func init() {
	askFacets.bind(askCmd)
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ds, _, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	records := filter.Apply(ds.Records, askFacets.selection())

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		fmt.Fprintln(cmd.OutOrStdout(), insight.Summarize(records).String())
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), insight.Answer(question, records))
	return nil
}
