// Package csvio reads the tabular input files and writes the recommendation
// exports. All inputs require a header row; columns are located by name, not
// position.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/almasov/nudge/internal/model"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// LoadClients reads client profiles keyed by client code.
func LoadClients(path string) (map[string]model.ClientProfile, error) {
	rows, header, err := readAll(path)
	if err != nil {
		return nil, err
	}

	col, err := columnIndex(header, "client_code", "avg_monthly_balance_KZT")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	clients := make(map[string]model.ClientProfile, len(rows))
	for i, row := range rows {
		balance, err := strconv.ParseFloat(field(row, col, "avg_monthly_balance_KZT"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad avg_monthly_balance_KZT: %w", path, i+2, err)
		}

		profile := model.ClientProfile{
			ClientCode:        field(row, col, "client_code"),
			Name:              field(row, col, "name"),
			Status:            field(row, col, "status"),
			City:              field(row, col, "city"),
			AvgMonthlyBalance: balance,
			FCMToken:          field(row, col, "fcm_token"),
		}
		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		clients[profile.ClientCode] = profile
	}
	return clients, nil
}

// LoadTransactions reads transactions grouped by client code.
func LoadTransactions(path string) (map[string][]model.Transaction, error) {
	rows, header, err := readAll(path)
	if err != nil {
		return nil, err
	}

	col, err := columnIndex(header, "client_code", "date", "category", "amount")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	byClient := make(map[string][]model.Transaction)
	for i, row := range rows {
		date, err := parseDate(field(row, col, "date"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		amount, err := strconv.ParseFloat(field(row, col, "amount"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad amount: %w", path, i+2, err)
		}

		t := model.Transaction{
			Date:     date,
			Category: field(row, col, "category"),
			Amount:   amount,
			Currency: field(row, col, "currency"),
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		code := field(row, col, "client_code")
		byClient[code] = append(byClient[code], t)
	}
	return byClient, nil
}

// LoadTransfers reads transfers grouped by client code. Rows with an unknown
// direction are skipped with a warning rather than failing the file.
func LoadTransfers(path string) (map[string][]model.Transfer, error) {
	rows, header, err := readAll(path)
	if err != nil {
		return nil, err
	}

	col, err := columnIndex(header, "client_code", "date", "transfer_type", "direction", "amount")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	byClient := make(map[string][]model.Transfer)
	for i, row := range rows {
		date, err := parseDate(field(row, col, "date"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		amount, err := strconv.ParseFloat(field(row, col, "amount"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad amount: %w", path, i+2, err)
		}

		tr := model.Transfer{
			Date:      date,
			Type:      field(row, col, "transfer_type"),
			Direction: model.Direction(strings.ToLower(field(row, col, "direction"))),
			Amount:    amount,
			Currency:  field(row, col, "currency"),
		}
		if err := tr.Validate(); err != nil {
			slog.Warn("skipping malformed transfer row", "file", path, "row", i+2, "error", err)
			continue
		}
		code := field(row, col, "client_code")
		byClient[code] = append(byClient[code], tr)
	}
	return byClient, nil
}

func readAll(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err = r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: missing header row: %w", path, err)
	}

	for {
		row, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, readErr)
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// columnIndex maps header names to positions and checks required columns.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return col, nil
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}
