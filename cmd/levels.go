package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skills-matcher/internal/matching"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Print the level distance table used for scoring",
	RunE: func(cmd *cobra.Command, _ []string) error {
		config, err := getConfig(viper.GetViper())
		if err != nil {
			return err
		}

		xConst := config.XConst
		if cmd.Flags().Changed("x-const") {
			xConst, _ = cmd.Flags().GetFloat64("x-const")
		}

		return printLevels(cmd.OutOrStdout(), xConst, sentinels(config))
	},
}

func init() {
	rootCmd.AddCommand(levelsCmd)

	levelsCmd.Flags().Float64("x-const", matching.DefaultXConst, "penalty for a requested skill the candidate does not have")
}

func printLevels(out io.Writer, xConst float64, s matching.Sentinels) error {
	table, err := matching.NewPenaltyTable(xConst)
	if err != nil {
		return err
	}

	columns := make([]string, 0, len(matching.Levels)+2)
	for _, level := range matching.Levels {
		columns = append(columns, string(level))
	}
	columns = append(columns, s.PresentLevelMissing, s.AbsentLevelMissing)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "target")
	for _, col := range columns {
		fmt.Fprintf(w, "\t%s", col)
	}
	fmt.Fprintln(w)

	targets := append([]matching.Level(nil), matching.Levels...)
	targets = append(targets, matching.LevelNone)
	for _, target := range targets {
		row := table.Row(target, s)
		fmt.Fprint(w, target.String())
		for _, col := range columns {
			fmt.Fprintf(w, "\t%s", strconv.FormatFloat(row[col], 'f', -1, 64))
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}
