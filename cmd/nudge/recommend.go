package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/almasov/nudge/internal/cli"
	"github.com/almasov/nudge/internal/currency"
	"github.com/almasov/nudge/internal/model"
	"github.com/almasov/nudge/internal/storage"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend CLIENT_CODE",
		Short: "Recommend the best product for one client",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecommend,
	}
	inputFlags(cmd)
	cmd.Flags().String("db", "", "SQLite path for the audit trail (optional)")
	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	clientCode := args[0]

	clients, transactions, transfers, err := loadInputs(cmd)
	if err != nil {
		return err
	}
	profile, err := requireClient(clients, clientCode)
	if err != nil {
		return err
	}

	_, pipeline, err := buildPipeline()
	if err != nil {
		return err
	}

	rec, err := pipeline.Recommend(ctx, profile, transactions[clientCode], transfers[clientCode])
	if err != nil {
		return err
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		if err := saveToAudit(ctx, dbPath, rec); err != nil {
			return err
		}
	}

	printRecommendation(rec)
	return nil
}

func printRecommendation(rec *model.Recommendation) {
	best := rec.Selection.Best()
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Client %s", rec.ClientCode)))
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Best product: %s (benefit %s, utility %.1f)",
		best.Product.DisplayName(), currency.FormatKZT(best.Benefit), best.Utility)))
	fmt.Println()
	fmt.Println(rec.Notification.Text)

	if rec.Notification.PolicyStatus != model.PolicyOK {
		fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("policy: %s (delivered truncated)", rec.Notification.PolicyStatus)))
	}
	if rec.Notification.Fallback {
		fmt.Println(cli.WarningStyle.Render("generation failed, fallback text delivered"))
	}

	fmt.Println()
	fmt.Println(cli.SubtleStyle.Render("Full ranking:"))
	for i, sp := range rec.Selection.Products {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%2d. %-30s %12s  %5.1f",
			i+1, sp.Product.DisplayName(), currency.FormatKZT(sp.Benefit), sp.Utility)))
	}
}

func saveToAudit(ctx context.Context, dbPath string, recs ...*model.Recommendation) error {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	for _, rec := range recs {
		if err := store.SaveRecommendation(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
