package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const AuditResultsSchema = `
	CREATE TABLE IF NOT EXISTS audit_results (
		id VARCHAR NOT NULL,
		site VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		compliance_score INTEGER NOT NULL,
		total_checks INTEGER NOT NULL,
		passed_checks INTEGER NOT NULL,
		failed_checks INTEGER NOT NULL,
		warning_checks INTEGER NOT NULL,
		findings_json JSON,
		snapshot JSON,
		PRIMARY KEY (site, id)
	);
`

const DismissedIssuesSchema = `
	CREATE TABLE IF NOT EXISTS dismissed_issues (
		site VARCHAR NOT NULL,
		issue_key VARCHAR NOT NULL,
		dismissed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (site, issue_key)
	);
`

var bootQueries = []string{
	AuditResultsSchema,
	DismissedIssuesSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
