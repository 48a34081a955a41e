package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/almasov/nudge/internal/cli"
	"github.com/almasov/nudge/internal/csvio"
	"github.com/almasov/nudge/internal/model"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Recommend products for every client and export the CSV",
		RunE:  runBatch,
	}
	inputFlags(cmd)
	cmd.Flags().String("out", "recommendations.csv", "output CSV path")
	cmd.Flags().Int("workers", 4, "number of parallel client workers")
	cmd.Flags().String("db", "", "SQLite path for the audit trail (optional)")
	return cmd
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clients, transactions, transfers, err := loadInputs(cmd)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		return fmt.Errorf("no clients in input")
	}

	_, pipeline, err := buildPipeline()
	if err != nil {
		return err
	}

	batch := clientBatch(clients, transactions, transfers)
	workers, _ := cmd.Flags().GetInt("workers")

	bar := progressbar.Default(int64(len(batch)), "recommending")
	result := pipeline.RunBatch(ctx, batch, workers, func() {
		_ = bar.Add(1)
	})
	_ = bar.Finish()

	outPath, _ := cmd.Flags().GetString("out")
	if err := csvio.WriteRecommendations(outPath, result.Recommendations); err != nil {
		return err
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		recs := make([]*model.Recommendation, len(result.Recommendations))
		for i := range result.Recommendations {
			recs[i] = &result.Recommendations[i]
		}
		if err := saveToAudit(ctx, dbPath, recs...); err != nil {
			return err
		}
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%d recommendations written to %s",
		len(result.Recommendations), outPath)))

	for _, f := range result.Failures {
		fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("client %s skipped: %v", f.ClientCode, f.Err)))
	}
	if len(result.Failures) > 0 {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d of %d clients failed; see log for details",
			len(result.Failures), len(batch))))
	}
	return nil
}
