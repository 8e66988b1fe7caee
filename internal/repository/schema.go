package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/pkg/database"
)

const baseSchema = `
CREATE TABLE IF NOT EXISTS criteria_master (
    id BIGSERIAL PRIMARY KEY,
    criteria_code TEXT NOT NULL UNIQUE,
    criterion_id VARCHAR(2) NOT NULL,
    sub_criterion_id VARCHAR(4) NOT NULL DEFAULT '',
    sub_sub_criterion_id VARCHAR(6) NOT NULL DEFAULT '',
    criterion_name TEXT NOT NULL,
    sub_criterion_name TEXT NOT NULL DEFAULT '',
    sub_sub_criterion_name TEXT NOT NULL DEFAULT '',
    criteria_type VARCHAR(2) NOT NULL DEFAULT 'Qn' CHECK (criteria_type IN ('Qn', 'Ql')),
    requirements TEXT,
    last_reviewed TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_criteria_master_criterion ON criteria_master (criterion_id);

CREATE TABLE IF NOT EXISTS iiqa_form (
    id BIGSERIAL PRIMARY KEY,
    institution_id BIGINT NOT NULL,
    session_start_year INTEGER NOT NULL,
    session_end_year INTEGER NOT NULL,
    year_filled INTEGER NOT NULL,
    naac_cycle INTEGER NOT NULL DEFAULT 1,
    desired_grade VARCHAR(3) NOT NULL,
    has_mou BOOLEAN NOT NULL DEFAULT FALSE,
    mou_file_url TEXT,
    status VARCHAR(16) NOT NULL DEFAULT 'submitted',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT iiqa_session_order CHECK (session_start_year < session_end_year),
    UNIQUE (institution_id, session_start_year, session_end_year, year_filled)
);

CREATE TABLE IF NOT EXISTS iiqa_programme_count (
    iiqa_form_id BIGINT PRIMARY KEY REFERENCES iiqa_form(id) ON DELETE CASCADE,
    ug INTEGER NOT NULL DEFAULT 0,
    pg INTEGER NOT NULL DEFAULT 0,
    post_masters INTEGER NOT NULL DEFAULT 0,
    pre_doctoral INTEGER NOT NULL DEFAULT 0,
    doctoral INTEGER NOT NULL DEFAULT 0,
    post_doctoral INTEGER NOT NULL DEFAULT 0,
    pg_diploma INTEGER NOT NULL DEFAULT 0,
    diploma INTEGER NOT NULL DEFAULT 0,
    certificate INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS iiqa_departments (
    id BIGSERIAL PRIMARY KEY,
    iiqa_form_id BIGINT NOT NULL REFERENCES iiqa_form(id) ON DELETE CASCADE,
    department TEXT NOT NULL,
    program TEXT NOT NULL,
    university TEXT NOT NULL,
    affiliation_status TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_iiqa_departments_form ON iiqa_departments (iiqa_form_id);

CREATE TABLE IF NOT EXISTS iiqa_staff_details (
    iiqa_form_id BIGINT PRIMARY KEY REFERENCES iiqa_form(id) ON DELETE CASCADE,
    perm_male INTEGER NOT NULL DEFAULT 0,
    perm_female INTEGER NOT NULL DEFAULT 0,
    perm_trans INTEGER NOT NULL DEFAULT 0,
    other_male INTEGER NOT NULL DEFAULT 0,
    other_female INTEGER NOT NULL DEFAULT 0,
    other_trans INTEGER NOT NULL DEFAULT 0,
    non_male INTEGER NOT NULL DEFAULT 0,
    non_female INTEGER NOT NULL DEFAULT 0,
    non_trans INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS iiqa_student_details (
    iiqa_form_id BIGINT PRIMARY KEY REFERENCES iiqa_form(id) ON DELETE CASCADE,
    regular_male INTEGER NOT NULL DEFAULT 0,
    regular_female INTEGER NOT NULL DEFAULT 0,
    regular_trans INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS extended_profile (
    id BIGSERIAL PRIMARY KEY,
    iiqa_form_id BIGINT NOT NULL REFERENCES iiqa_form(id) ON DELETE CASCADE,
    year INTEGER NOT NULL,
    number_of_courses_offered INTEGER NOT NULL DEFAULT 0,
    total_students INTEGER NOT NULL DEFAULT 0,
    reserved_category_seats INTEGER NOT NULL DEFAULT 0,
    outgoing_final_year_students INTEGER NOT NULL DEFAULT 0,
    full_time_teachers INTEGER NOT NULL DEFAULT 0,
    sanctioned_posts INTEGER NOT NULL DEFAULT 0,
    total_classrooms INTEGER NOT NULL DEFAULT 0,
    total_seminar_halls INTEGER NOT NULL DEFAULT 0,
    total_computers INTEGER NOT NULL DEFAULT 0,
    expenditure_in_lakhs NUMERIC NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (iiqa_form_id, year)
);

CREATE TABLE IF NOT EXISTS scores (
    sl_no BIGSERIAL PRIMARY KEY,
    criteria_code TEXT NOT NULL,
    criteria_id VARCHAR(2) NOT NULL,
    sub_criteria_id VARCHAR(4) NOT NULL DEFAULT '',
    sub_sub_criteria_id VARCHAR(6) NOT NULL DEFAULT '',
    score_criteria NUMERIC NOT NULL DEFAULT 0,
    score_sub_criteria NUMERIC NOT NULL DEFAULT 0,
    score_sub_sub_criteria NUMERIC NOT NULL DEFAULT 0,
    sub_sub_cr_grade INTEGER NOT NULL DEFAULT 0,
    weighted_cr_score NUMERIC NOT NULL DEFAULT 0,
    session INTEGER NOT NULL,
    cycle_year INTEGER NOT NULL DEFAULT 0,
    computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (criteria_code, session)
);
CREATE INDEX IF NOT EXISTS idx_scores_session_criteria ON scores (session, criteria_id);
`

func columnType(kind criteria.Kind) string {
	switch kind {
	case criteria.KindYear, criteria.KindInt, criteria.KindOption:
		return "INTEGER"
	case criteria.KindNumber:
		return "NUMERIC"
	case criteria.KindDate:
		return "DATE"
	default:
		return "TEXT"
	}
}

type responseTable struct {
	name    string
	columns []string
	types   map[string]string
	keys    [][]string
}

func (t *responseTable) addColumn(name, sqlType string) {
	if _, ok := t.types[name]; ok {
		return
	}
	t.columns = append(t.columns, name)
	t.types[name] = sqlType
}

func (t *responseTable) addKey(key []string) {
	joined := strings.Join(key, ",")
	for _, existing := range t.keys {
		if strings.Join(existing, ",") == joined {
			return
		}
	}
	t.keys = append(t.keys, key)
}

// responseTables folds every form target into its table definition. Tables written by
// more than one form get the union of their columns and one unique index per natural key.
func responseTables() []*responseTable {
	byName := map[string]*responseTable{}
	for _, form := range criteria.Forms() {
		kinds := map[string]criteria.Kind{criteria.SessionField: criteria.KindYear}
		for _, f := range form.Fields {
			kinds[f.Name] = f.Kind
		}
		for _, target := range form.Targets {
			name := target.Code.Table()
			table, ok := byName[name]
			if !ok {
				table = &responseTable{name: name, types: map[string]string{}}
				byName[name] = table
			}
			for _, col := range form.Columns(target) {
				table.addColumn(col, columnType(kinds[col]))
			}
			for _, k := range target.Keys() {
				table.addKey(k)
			}
		}
	}
	out := make([]*responseTable, 0, len(byName))
	for _, t := range byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (t *responseTable) ddl() ([]string, error) {
	table, err := ident(t.name)
	if err != nil {
		return nil, err
	}
	defs := []string{"sl_no BIGSERIAL PRIMARY KEY"}
	for _, col := range t.columns {
		name, err := ident(col)
		if err != nil {
			return nil, err
		}
		def := name + " " + t.types[col]
		if col == criteria.SessionField {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	defs = append(defs,
		"criteria_code TEXT NOT NULL",
		"criteria_master_id BIGINT REFERENCES criteria_master(id)",
		"submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()",
		"updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()",
	)
	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)", table, strings.Join(defs, ",\n    ")),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_code_session ON %s (criteria_code, session)", table, table),
	}
	for i, key := range t.keys {
		exprs := make([]string, len(key))
		for j, entry := range key {
			expr, err := keyExpr(entry)
			if err != nil {
				return nil, err
			}
			exprs[j] = expr
		}
		stmts = append(stmts, fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS uq_%s_%d ON %s (%s)", table, i+1, table, strings.Join(exprs, ", ")))
	}
	return stmts, nil
}

// Schema returns the DDL statements for every table the service reads or writes.
func Schema() ([]string, error) {
	stmts := []string{baseSchema}
	for _, t := range responseTables() {
		ddl, err := t.ddl()
		if err != nil {
			return nil, fmt.Errorf("schema for %s: %w", t.name, err)
		}
		stmts = append(stmts, ddl...)
	}
	return stmts, nil
}

// Migrate applies Schema inside one transaction. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts, err := Schema()
	if err != nil {
		return err
	}
	return database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return nil
	})
}
