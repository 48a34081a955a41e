package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/almasov/nudge/internal/config"
	"github.com/almasov/nudge/internal/csvio"
	"github.com/almasov/nudge/internal/engine"
	"github.com/almasov/nudge/internal/model"
)

// inputFlags registers the shared input-file flags on a command.
func inputFlags(cmd *cobra.Command) {
	cmd.Flags().String("clients", "clients.csv", "path to the clients CSV")
	cmd.Flags().String("transactions", "transactions.csv", "path to the transactions CSV")
	cmd.Flags().String("transfers", "transfers.csv", "path to the transfers CSV")
}

// loadInputs reads the three input files addressed by a command's flags.
func loadInputs(cmd *cobra.Command) (map[string]model.ClientProfile, map[string][]model.Transaction, map[string][]model.Transfer, error) {
	clientsPath, _ := cmd.Flags().GetString("clients")
	transactionsPath, _ := cmd.Flags().GetString("transactions")
	transfersPath, _ := cmd.Flags().GetString("transfers")

	clients, err := csvio.LoadClients(clientsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	transactions, err := csvio.LoadTransactions(transactionsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	transfers, err := csvio.LoadTransfers(transfersPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return clients, transactions, transfers, nil
}

// buildPipeline resolves configuration and constructs the pipeline once.
func buildPipeline() (*config.Config, *engine.Pipeline, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	p, err := engine.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}

// clientBatch assembles ordered per-client batch inputs. Clients without a
// profile row are skipped; clients without transactions stay in and fail
// their own runs, which the batch reports without halting.
func clientBatch(clients map[string]model.ClientProfile, transactions map[string][]model.Transaction, transfers map[string][]model.Transfer) []engine.ClientData {
	codes := make([]string, 0, len(clients))
	for code := range clients {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	batch := make([]engine.ClientData, 0, len(codes))
	for _, code := range codes {
		batch = append(batch, engine.ClientData{
			Profile:      clients[code],
			Transactions: transactions[code],
			Transfers:    transfers[code],
		})
	}
	return batch
}

func requireClient(clients map[string]model.ClientProfile, code string) (model.ClientProfile, error) {
	profile, ok := clients[code]
	if !ok {
		return model.ClientProfile{}, fmt.Errorf("client %s not found in clients file", code)
	}
	return profile, nil
}
