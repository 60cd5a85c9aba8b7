package sheets

import (
	"fmt"
	"strings"

	"lifedeck/internal/core"
)

// Ledger columns, in sheet order.
var LedgerHeader = []string{"Date", "Type", "Amount", "Category", "Description", "ID"}

const (
	colDate = iota
	colType
	colAmount
	colCategory
	colDescription
	colID
)

// LedgerRows renders the header plus one row per transaction, list order
// kept. Amounts are written as plain decimals ("45.50") so the sheet can sum
// them.
func LedgerRows(txs []core.Transaction) [][]interface{} {
	rows := make([][]interface{}, 0, len(txs)+1)
	header := make([]interface{}, len(LedgerHeader))
	for i, h := range LedgerHeader {
		header[i] = h
	}
	rows = append(rows, header)
	for _, tx := range txs {
		rows = append(rows, []interface{}{
			tx.Date.String(),
			string(tx.Type),
			decimal(tx.Amount),
			tx.Category,
			tx.Description,
			tx.ID,
		})
	}
	return rows
}

func decimal(m core.Money) string {
	b, _ := m.MarshalJSON()
	return string(b)
}

// ParseLedgerRows is the inverse of LedgerRows. The first row must be the
// header; blank rows are skipped; a malformed row fails the whole parse with
// its 1-based sheet row number.
func ParseLedgerRows(values [][]interface{}) ([]core.Transaction, error) {
	txs := make([]core.Transaction, 0)
	if len(values) == 0 {
		return txs, nil
	}
	header := toStrings(values[0])
	for i, want := range LedgerHeader {
		if !strings.EqualFold(safeGet(header, i), want) {
			return nil, fmt.Errorf("unexpected ledger header: got %v, want %v", header, LedgerHeader)
		}
	}
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		tx, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseRow(row []string) (core.Transaction, error) {
	date, err := core.ParseDate(safeGet(row, colDate))
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseMoney(safeGet(row, colAmount))
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:          safeGet(row, colID),
		Type:        core.TransactionType(strings.ToLower(safeGet(row, colType))),
		Amount:      amount,
		Category:    safeGet(row, colCategory),
		Description: safeGet(row, colDescription),
		Date:        date,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx >= 0 && idx < len(arr) {
		return arr[idx]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
