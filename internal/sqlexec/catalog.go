// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	showTablesRe  = regexp.MustCompile(`(?i)^\s*show\s+tables\s*$`)
	showColumnsRe = regexp.MustCompile(`(?i)^\s*show\s+columns\s+(?:from|in)\s+([A-Za-z_][A-Za-z0-9_$]*(?:\.[A-Za-z_][A-Za-z0-9_$]*)?)\s*$`)
)

const showTablesSQL = `SELECT table_catalog, table_schema, table_name, table_type
FROM information_schema.tables
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name`

const showColumnsSQL = `SELECT table_catalog, table_schema, table_name, column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema = '%s' AND table_name = '%s'
ORDER BY ordinal_position`

// rewriteCatalogStatement maps the SHOW TABLES / SHOW COLUMNS forms the hosted
// fiddle understands onto information_schema queries. Other statements are
// returned unchanged.
func rewriteCatalogStatement(stmt string) string {
	if showTablesRe.MatchString(stmt) {
		return showTablesSQL
	}
	if m := showColumnsRe.FindStringSubmatch(stmt); m != nil {
		schema, table := parseTableName(m[1])
		return fmt.Sprintf(showColumnsSQL, schema, table)
	}
	return stmt
}

// parseTableName splits a table name into schema and table components.
// If no schema is specified, it defaults to "public". Unquoted identifiers fold
// to lower case.
func parseTableName(tableName string) (schema string, table string) {
	parts := strings.Split(strings.ToLower(tableName), ".")
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "public", parts[0]
}
