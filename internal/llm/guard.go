package llm

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// RejectionSentinel 是模型无法生成查询时返回的约定值。
const RejectionSentinel = "False"

var (
	ErrRejectedByModel   = errors.New("model declined to generate a query")
	ErrEmptyQuery        = errors.New("empty query")
	ErrNotSelect         = errors.New("query is not a SELECT statement")
	ErrMultipleStatement = errors.New("query contains multiple statements")
	ErrWriteKeyword      = errors.New("query contains a write or DDL keyword")
	ErrProjection        = errors.New("query must project only user_id")
)

var (
	stringLiteral  = regexp.MustCompile(`'(?:[^']|'')*'`)
	quotedIdent    = regexp.MustCompile(`"([A-Za-z_][A-Za-z0-9_]*)"`)
	lineComment    = regexp.MustCompile(`--[^\n]*`)
	blockComment   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	forbiddenWords = regexp.MustCompile(`(?i)\b(insert|update|delete|merge|upsert|drop|alter|create|truncate|grant|revoke|copy|call|execute|vacuum|analyze|comment|lock|reindex|refresh|cluster|into|pg_sleep|pg_read_file|dblink|set_config)\b`)
	userIDColumn   = regexp.MustCompile(`(?i)^(distinct\s+)?([a-z_][a-z0-9_]*\.)?user_id(\s+(as\s+)?user_id)?$`)
	wordBoundary   = regexp.MustCompile(`(?i)\b(select|from)\b`)
)

// CleanSQL 去掉代码块标记与多余空白，以及末尾的分号。
func CleanSQL(raw string) string {
	sql := stripFences(raw)
	sql = strings.Join(strings.Fields(sql), " ")
	sql = strings.TrimSpace(sql)
	for strings.HasSuffix(sql, ";") {
		sql = strings.TrimSpace(strings.TrimSuffix(sql, ";"))
	}
	return sql
}

// GuardSQL 校验翻译结果：只允许单条只读查询，且每个顶层 SELECT 只投影 user_id。
func GuardSQL(sql string) error {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return ErrEmptyQuery
	}
	if strings.EqualFold(sql, RejectionSentinel) {
		return ErrRejectedByModel
	}

	stripped := blockComment.ReplaceAllString(sql, " ")
	stripped = lineComment.ReplaceAllString(stripped, " ")
	stripped = stringLiteral.ReplaceAllString(stripped, "''")
	stripped = quotedIdent.ReplaceAllString(stripped, "$1")
	stripped = strings.TrimSpace(stripped)

	if strings.Contains(stripped, ";") {
		return ErrMultipleStatement
	}

	lower := strings.ToLower(stripped)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return ErrNotSelect
	}
	if m := forbiddenWords.FindString(stripped); m != "" {
		return fmt.Errorf("%w: %s", ErrWriteKeyword, strings.ToUpper(m))
	}

	projections := topLevelProjections(stripped)
	if len(projections) == 0 {
		return ErrNotSelect
	}
	for _, p := range projections {
		if !userIDColumn.MatchString(strings.TrimSpace(p)) {
			return fmt.Errorf("%w: got %q", ErrProjection, p)
		}
	}
	return nil
}

// topLevelProjections 返回括号深度为 0 的每个 SELECT ... FROM 之间的投影列表。
func topLevelProjections(sql string) []string {
	depths := parenDepths(sql)
	var (
		out         []string
		selectStart = -1
	)
	for _, loc := range wordBoundary.FindAllStringIndex(sql, -1) {
		if depths[loc[0]] != 0 {
			continue
		}
		word := strings.ToLower(sql[loc[0]:loc[1]])
		switch word {
		case "select":
			selectStart = loc[1]
		case "from":
			if selectStart >= 0 {
				out = append(out, sql[selectStart:loc[0]])
				selectStart = -1
			}
		}
	}
	if selectStart >= 0 {
		// SELECT without FROM, e.g. "SELECT 1".
		out = append(out, sql[selectStart:])
	}
	return out
}

func parenDepths(s string) []int {
	depths := make([]int, len(s)+1)
	depth := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ')' && depth > 0 {
			depth--
		}
		depths[i] = depth
		if s[i] == '(' {
			depth++
		}
	}
	depths[len(s)] = depth
	return depths
}

// CapQuery 包装翻译结果，强制只返回 user_id 且最多 limit 行。
func CapQuery(sql string, limit int) string {
	return fmt.Sprintf("SELECT user_id FROM (%s) AS translated LIMIT %d", sql, limit)
}
