package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fieldSeparator joins the folded fields of a search key. Queries have it
// stripped, so a match never spans two fields.
const fieldSeparator = "\x00"

// foldSearch case-folds s and strips diacritics, so "NÚÑEZ", "núñez" and
// "nunez" fold to the same text.
func foldSearch(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Fold(),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// searchKey is the value stored in neighbors.search_key.
func searchKey(firstName, lastName, address string) string {
	return strings.Join([]string{
		foldSearch(firstName),
		foldSearch(lastName),
		foldSearch(address),
	}, fieldSeparator)
}

// searchTerm folds a query for matching against search_key.
func searchTerm(query string) string {
	return foldSearch(strings.ReplaceAll(query, fieldSeparator, ""))
}

// backfillSearchKeys fills search_key for rows written before the column
// existed.
func backfillSearchKeys(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx,
		"SELECT id, first_name, last_name, address FROM neighbors WHERE search_key = ''",
	)
	if err != nil {
		return fmt.Errorf("failed to list neighbors for search keys: %w", err)
	}

	keys := map[int64]string{}
	for rows.Next() {
		var id int64
		var first, last, address string
		if err := rows.Scan(&id, &first, &last, &address); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan neighbor: %w", err)
		}
		keys[id] = searchKey(first, last, address)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate neighbors: %w", err)
	}
	rows.Close()

	if len(keys) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for id, key := range keys {
		if _, err := tx.ExecContext(ctx, "UPDATE neighbors SET search_key = ? WHERE id = ?", key, id); err != nil {
			return fmt.Errorf("failed to update search key: %w", err)
		}
	}

	return tx.Commit()
}
