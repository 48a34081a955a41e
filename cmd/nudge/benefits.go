package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/almasov/nudge/internal/cli"
	"github.com/almasov/nudge/internal/csvio"
	"github.com/almasov/nudge/internal/currency"
)

func benefitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benefits CLIENT_CODE",
		Short: "Export the per-product benefit detail for one client",
		Long: `Computes the benefit estimate for all ten catalog products and writes them
sorted descending by benefit. This export exists for auditability and
debugging; the recommendation itself always comes from the utility ranking.`,
		Args: cobra.ExactArgs(1),
		RunE: runBenefits,
	}
	inputFlags(cmd)
	cmd.Flags().String("out", "benefits_detailed.csv", "output CSV path")
	return cmd
}

func runBenefits(cmd *cobra.Command, args []string) error {
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

	benefits, err := pipeline.EstimateBenefits(profile, transactions[clientCode], transfers[clientCode])
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if err := csvio.WriteBenefitDetails(outPath, benefits); err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Benefit detail for client %s", clientCode)))
	for i, b := range benefits {
		fmt.Printf("%2d. %-30s %s\n", i+1, b.Product.DisplayName(), currency.FormatKZT(b.Benefit))
	}
	fmt.Println(cli.SuccessStyle.Render("written to " + outPath))
	return nil
}
