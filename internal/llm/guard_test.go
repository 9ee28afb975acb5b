package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardSQLAccepts(t *testing.T) {
	accepted := []string{
		"SELECT user_id FROM candidate_resumes LIMIT 50",
		"select distinct user_id from candidate_resumes where location ilike '%Milano%'",
		"SELECT cr.user_id FROM candidate_resumes cr WHERE EXISTS (SELECT 1 FROM jsonb_array_elements_text(cr.skills) AS s WHERE s ILIKE '%cook%') LIMIT 50",
		"WITH hits AS (SELECT user_id, skills FROM candidate_resumes) SELECT user_id FROM hits",
		"SELECT user_id FROM candidate_resumes WHERE summary ILIKE '%delete old records; drop%'",
		"SELECT user_id FROM candidate_resumes UNION SELECT user_id FROM candidate_resumes WHERE updated_at > now()",
		`SELECT "user_id" FROM candidate_resumes`,
	}
	for _, sql := range accepted {
		require.NoError(t, GuardSQL(sql), sql)
	}
}

func TestGuardSQLRejects(t *testing.T) {
	cases := map[string]error{
		"":                              ErrEmptyQuery,
		"False":                         ErrRejectedByModel,
		"false":                         ErrRejectedByModel,
		"DELETE FROM candidate_resumes": ErrNotSelect,
		"SELECT user_id FROM candidate_resumes; DROP TABLE candidate_resumes":               ErrMultipleStatement,
		"SELECT * FROM candidate_resumes":                                                   ErrProjection,
		"SELECT user_id, email FROM candidate_resumes":                                      ErrProjection,
		"SELECT name AS user_id FROM candidate_resumes":                                     ErrProjection,
		"SELECT user_id INTO backup FROM candidate_resumes":                                 ErrWriteKeyword,
		"WITH x AS (DELETE FROM candidate_resumes RETURNING user_id) SELECT user_id FROM x": ErrWriteKeyword,
		"SELECT user_id FROM candidate_resumes UNION SELECT email FROM candidate_resumes":   ErrProjection,
		"SELECT pg_sleep(10)": ErrWriteKeyword,
	}
	for sql, want := range cases {
		require.ErrorIs(t, GuardSQL(sql), want, sql)
	}
}

func TestCleanSQL(t *testing.T) {
	raw := "```sql\nSELECT user_id\n  FROM candidate_resumes\n LIMIT 50;\n```"
	require.Equal(t, "SELECT user_id FROM candidate_resumes LIMIT 50", CleanSQL(raw))
	require.Equal(t, "False", CleanSQL(" False "))
}

func TestCapQuery(t *testing.T) {
	require.Equal(t,
		"SELECT user_id FROM (SELECT user_id FROM candidate_resumes) AS translated LIMIT 50",
		CapQuery("SELECT user_id FROM candidate_resumes", 50),
	)
}
