/*
Package sqldataset provides a way to load a dataset.Dataset from a table
of an SQL database. The adapters for each database engine are provided by
its subpackages.
*/
package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
Adapter is an interface to read samples from a database table.

Its ColumnName method takes a feature name and returns the name of the column
for it or an error if the name cannot be used as a column.

Its Columns method returns the names of the columns of the given table.

Its IterateOnSamples method queries the given columns of the rows of a table,
optionally ordered by a column, and calls the lambda function with the index
and the values of every row, keyed by column. NULL values are returned as
feature.UndefinedValue. Iteration stops when the lambda returns false or an
error.
*/
type Adapter interface {
	ColumnName(featureName string) (string, error)
	Columns(ctx context.Context, table string) ([]string, error)
	IterateOnSamples(ctx context.Context, table string, columns []string, orderBy string, lambda func(int, map[string]string) (bool, error)) error
	Close() error
}

type adapter struct {
	db *sql.DB
}

/*
NewAdapter takes an *sql.DB for a database that accepts double quoted
identifiers and returns an Adapter that works on it.
*/
func NewAdapter(db *sql.DB) Adapter {
	return &adapter{db}
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	if featureName == "" {
		return "", fmt.Errorf("empty names cannot be used as column names")
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

func (a *adapter) Columns(ctx context.Context, table string) ([]string, error) {
	tableName, err := a.ColumnName(table)
	if err != nil {
		return nil, fmt.Errorf("invalid table: %v", err)
	}
	rows, err := a.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s" LIMIT 0`, tableName))
	if err != nil {
		return nil, fmt.Errorf("querying columns of %s: %v", table, err)
	}
	defer rows.Close()
	return rows.Columns()
}

func (a *adapter) IterateOnSamples(ctx context.Context, table string, columns []string, orderBy string, lambda func(int, map[string]string) (bool, error)) error {
	query, err := a.selectQuery(table, columns, orderBy)
	if err != nil {
		return err
	}
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("querying samples: %v", err)
	}
	defer rows.Close()
	values := make([]sql.NullString, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	for i := 0; rows.Next(); i++ {
		err = rows.Scan(scanArgs...)
		if err != nil {
			return fmt.Errorf("scanning sample %d: %v", i, err)
		}
		row := make(map[string]string, len(columns))
		for j, c := range columns {
			if values[j].Valid {
				row[c] = values[j].String
			} else {
				row[c] = feature.UndefinedValue
			}
		}
		ok, err := lambda(i, row)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) Close() error {
	return a.db.Close()
}

func (a *adapter) selectQuery(table string, columns []string, orderBy string) (string, error) {
	var queryBuf bytes.Buffer
	queryBuf.WriteString("SELECT ")
	for i, c := range columns {
		cn, err := a.ColumnName(c)
		if err != nil {
			return "", err
		}
		if i > 0 {
			queryBuf.WriteString(", ")
		}
		queryBuf.WriteString(fmt.Sprintf(`"%s"`, cn))
	}
	tableName, err := a.ColumnName(table)
	if err != nil {
		return "", fmt.Errorf("invalid table: %v", err)
	}
	queryBuf.WriteString(fmt.Sprintf(` FROM "%s"`, tableName))
	if orderBy != "" {
		cn, err := a.ColumnName(orderBy)
		if err != nil {
			return "", fmt.Errorf("invalid order: %v", err)
		}
		queryBuf.WriteString(fmt.Sprintf(` ORDER BY "%s"`, cn))
	}
	return queryBuf.String(), nil
}

/*
ReadDataset takes a context, an Adapter, a table name, a slice of features, an
optional column to order rows by and a dataset.Generator and returns a
dataset built with the Generator and the samples read from the table,
together with the features used to read them.

When no features are given, a feature accepting any value is used for every
column of the table, in column order. Values are validated against their
features.
*/
func ReadDataset(ctx context.Context, a Adapter, table string, features []feature.Feature, orderBy string, dg dataset.Generator) (dataset.Dataset, []feature.Feature, error) {
	if len(features) == 0 {
		columns, err := a.Columns(ctx, table)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range columns {
			features = append(features, feature.NewDiscreteFeature(c, nil))
		}
	}
	columns := make([]string, 0, len(features))
	for _, f := range features {
		columns = append(columns, f.Name())
	}
	samples := []dataset.Sample{}
	err := a.IterateOnSamples(ctx, table, columns, orderBy, func(i int, row map[string]string) (bool, error) {
		for _, f := range features {
			if ok, err := f.Valid(row[f.Name()]); !ok {
				return false, fmt.Errorf("sample %d: %v", i, err)
			}
		}
		samples = append(samples, dataset.NewSample(row))
		return true, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("reading table %s: %w", table, err)
	}
	return dg(samples), features, nil
}
