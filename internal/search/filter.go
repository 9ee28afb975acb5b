package search

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"jobbyResume/internal/database"
	"jobbyResume/internal/errcode"
)

// Filters 是结构化筛选条件：同一条件内任一值命中即可，不同条件之间取交集。
type Filters struct {
	Locations        []string `json:"locations" form:"locations"`
	ExperienceLevels []string `json:"experience_levels" form:"experience_levels"`
	SoftSkills       []string `json:"soft_skills" form:"soft_skills"`
	HardSkills       []string `json:"hard_skills" form:"hard_skills"`
	Languages        []string `json:"languages" form:"languages"`
	Certifications   []string `json:"certifications" form:"certifications"`
}

// Normalize 去掉空白值，并把逗号分隔的值拆开。
func (f Filters) Normalize() Filters {
	return Filters{
		Locations:        splitValues(f.Locations),
		ExperienceLevels: splitValues(f.ExperienceLevels),
		SoftSkills:       splitValues(f.SoftSkills),
		HardSkills:       splitValues(f.HardSkills),
		Languages:        splitValues(f.Languages),
		Certifications:   splitValues(f.Certifications),
	}
}

// Empty reports whether no criterion carries a value.
func (f Filters) Empty() bool {
	n := f.Normalize()
	return len(n.Locations)+len(n.ExperienceLevels)+len(n.SoftSkills)+
		len(n.HardSkills)+len(n.Languages)+len(n.Certifications) == 0
}

// FilterState 区分"未请求筛选"与"筛选后为空"。
type FilterState int

const (
	NotRequested FilterState = iota
	RequestedEmpty
	Matched
)

func (s FilterState) String() string {
	switch s {
	case RequestedEmpty:
		return "requested_empty"
	case Matched:
		return "matched"
	default:
		return "not_requested"
	}
}

// FilterOutcome 是筛选结果，IDs 只在 Matched 时非空。
type FilterOutcome struct {
	State FilterState
	IDs   []int64
}

type columnKind int

const (
	scalarColumn columnKind = iota
	arrayColumn
	elementField
)

type target struct {
	column string
	kind   columnKind
	field  string
}

var (
	locationTargets      = []target{{column: "location"}, {column: "jobby_location"}}
	experienceTargets    = []target{{column: "experience", kind: elementField, field: "duration"}}
	skillTargets         = []target{{column: "skills", kind: arrayColumn}, {column: "jobby_skills", kind: arrayColumn}}
	languageTargets      = []target{{column: "languages", kind: arrayColumn}, {column: "jobby_language"}}
	certificationTargets = []target{{column: "certifications", kind: arrayColumn}, {column: "jobby_certifications", kind: arrayColumn}}
)

// FilterEngine 把 Filters 翻译成对 candidate_resumes 的 EXISTS/LIKE 条件。
type FilterEngine struct {
	db *gorm.DB
}

// NewFilterEngine 构造 FilterEngine。
func NewFilterEngine(db *gorm.DB) *FilterEngine {
	return &FilterEngine{db: db}
}

// Apply 执行筛选；全部条件为空时返回 NotRequested 且不访问数据库。
func (e *FilterEngine) Apply(ctx context.Context, filters Filters) (FilterOutcome, error) {
	f := filters.Normalize()
	criteria := []struct {
		values  []string
		targets []target
	}{
		{f.Locations, locationTargets},
		{f.ExperienceLevels, experienceTargets},
		{f.SoftSkills, skillTargets},
		{f.HardSkills, skillTargets},
		{f.Languages, languageTargets},
		{f.Certifications, certificationTargets},
	}

	d := dialectOf(e.db)
	q := e.db.WithContext(ctx).Model(&database.CandidateResume{})
	applied := 0
	for _, c := range criteria {
		if len(c.values) == 0 {
			continue
		}
		sql, args := d.anyOf(c.targets, c.values)
		q = q.Where(sql, args...)
		applied++
	}
	if applied == 0 {
		return FilterOutcome{State: NotRequested}, nil
	}

	var ids []int64
	if err := q.Order("id").Pluck("user_id", &ids).Error; err != nil {
		return FilterOutcome{}, errcode.Persistence("Failed to apply filters", err)
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return FilterOutcome{State: RequestedEmpty}, nil
	}
	return FilterOutcome{State: Matched, IDs: ids}, nil
}

type dialect struct {
	postgres bool
}

func dialectOf(db *gorm.DB) dialect {
	return dialect{postgres: db.Dialector.Name() == "postgres"}
}

// anyOf 生成 "(t1 LIKE v1 OR t2 LIKE v1 OR t1 LIKE v2 ...)"。
func (d dialect) anyOf(targets []target, values []string) (string, []any) {
	var (
		parts []string
		args  []any
	)
	for _, v := range values {
		pattern := "%" + escapeLike(v) + "%"
		for _, t := range targets {
			parts = append(parts, d.match(t))
			args = append(args, pattern)
		}
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func (d dialect) match(t target) string {
	if d.postgres {
		switch t.kind {
		case arrayColumn:
			return fmt.Sprintf(`EXISTS (SELECT 1 FROM jsonb_array_elements(COALESCE(%s, '[]'::jsonb)) AS e WHERE e::text ILIKE ? ESCAPE '\')`, t.column)
		case elementField:
			return fmt.Sprintf(`EXISTS (SELECT 1 FROM jsonb_array_elements(COALESCE(%s, '[]'::jsonb)) AS e WHERE e->>'%s' ILIKE ? ESCAPE '\')`, t.column, t.field)
		default:
			return fmt.Sprintf(`%s ILIKE ? ESCAPE '\'`, t.column)
		}
	}
	switch t.kind {
	case arrayColumn:
		return fmt.Sprintf(`EXISTS (SELECT 1 FROM json_each(COALESCE(%s, '[]')) AS e WHERE lower(e.value) LIKE lower(?) ESCAPE '\')`, t.column)
	case elementField:
		return fmt.Sprintf(`EXISTS (SELECT 1 FROM json_each(COALESCE(%s, '[]')) AS e WHERE lower(json_extract(e.value, '$.%s')) LIKE lower(?) ESCAPE '\')`, t.column, t.field)
	default:
		return fmt.Sprintf(`lower(COALESCE(%s, '')) LIKE lower(?) ESCAPE '\'`, t.column)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(v string) string {
	return likeEscaper.Replace(v)
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
