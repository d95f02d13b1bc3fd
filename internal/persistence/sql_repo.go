package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/felixbrock/ideaspark/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS idea (
	id TEXT PRIMARY KEY,
	idea TEXT NOT NULL,
	tagline TEXT NOT NULL,
	improvement TEXT NOT NULL,
	created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS follow_up_question (
	id TEXT PRIMARY KEY,
	idea_id TEXT NOT NULL REFERENCES idea(id),
	seq INTEGER NOT NULL,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_follow_up_question_idea ON follow_up_question(idea_id, seq)`

// SQLRepo stores ideas in PostgreSQL or libSQL. Timestamps are kept as unix
// nanoseconds so both drivers scan them the same way.
type SQLRepo struct {
	db       *sql.DB
	postgres bool
}

// NewPostgresRepo opens dsn with lib/pq and creates the schema.
func NewPostgresRepo(ctx context.Context, dsn string) (*SQLRepo, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	return newSQLRepo(ctx, db, true)
}

// NewLibSQLRepo opens a libSQL (Turso) database at url.
func NewLibSQLRepo(ctx context.Context, url string, authToken string) (*SQLRepo, error) {
	dsn := url
	if authToken != "" {
		dsn = fmt.Sprintf("%s?authToken=%s", url, authToken)
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open libsql: %w", err)
	}

	return newSQLRepo(ctx, db, false)
}

func newSQLRepo(ctx context.Context, db *sql.DB, postgres bool) (*SQLRepo, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &SQLRepo{db: db, postgres: postgres}

	if err := r.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return r, nil
}

func (r *SQLRepo) initSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}

	return nil
}

func (r *SQLRepo) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, ... for PostgreSQL.
func (r *SQLRepo) rebind(query string) string {
	if !r.postgres {
		return query
	}

	n := 1
	out := strings.Builder{}
	for _, ch := range query {
		if ch == '?' {
			out.WriteString(fmt.Sprintf("$%d", n))
			n++
		} else {
			out.WriteRune(ch)
		}
	}
	return out.String()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func (r *SQLRepo) Insert(ctx context.Context, idea domain.Idea) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, r.rebind(`INSERT INTO idea (id, idea, tagline, improvement, created_at) VALUES (?, ?, ?, ?, ?)`),
		idea.Id, idea.Idea, idea.Tagline, idea.Improvement, idea.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert idea: %w", err)
	}

	for i, q := range idea.FollowUpQuestions {
		if err := r.insertFollowUp(ctx, tx, idea.Id, i+1, q); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLRepo) insertFollowUp(ctx context.Context, tx *sql.Tx, ideaId string, seq int, q domain.FollowUpQuestion) error {
	_, err := tx.ExecContext(ctx, r.rebind(`INSERT INTO follow_up_question (id, idea_id, seq, question, answer, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		q.Id, ideaId, seq, q.Question, q.Answer, q.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert follow-up question: %w", err)
	}

	return nil
}

func (r *SQLRepo) List(ctx context.Context) ([]domain.Idea, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, idea, tagline, improvement, created_at FROM idea ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	ideas := []domain.Idea{}
	index := map[string]int{}
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		index[idea.Id] = len(ideas)
		ideas = append(ideas, *idea)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	qRows, err := r.db.QueryContext(ctx, `SELECT idea_id, id, question, answer, created_at FROM follow_up_question ORDER BY idea_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("list follow-up questions: %w", err)
	}
	defer qRows.Close()

	for qRows.Next() {
		var ideaId string
		var q domain.FollowUpQuestion
		var createdAt int64
		if err := qRows.Scan(&ideaId, &q.Id, &q.Question, &q.Answer, &createdAt); err != nil {
			return nil, err
		}
		q.CreatedAt = fromNanos(createdAt)

		if i, ok := index[ideaId]; ok {
			ideas[i].FollowUpQuestions = append(ideas[i].FollowUpQuestions, q)
		}
	}

	return ideas, qRows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIdea(row scanner) (*domain.Idea, error) {
	var idea domain.Idea
	var createdAt int64

	if err := row.Scan(&idea.Id, &idea.Idea, &idea.Tagline, &idea.Improvement, &createdAt); err != nil {
		return nil, err
	}

	idea.CreatedAt = fromNanos(createdAt)
	idea.FollowUpQuestions = []domain.FollowUpQuestion{}

	return &idea, nil
}

func (r *SQLRepo) GetByID(ctx context.Context, id string) (*domain.Idea, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT id, idea, tagline, improvement, created_at FROM idea WHERE id = ?`), id)

	idea, err := scanIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("idea %s: %w", id, domain.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("get idea %s: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT id, question, answer, created_at FROM follow_up_question WHERE idea_id = ? ORDER BY seq`), id)
	if err != nil {
		return nil, fmt.Errorf("get follow-up questions %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var q domain.FollowUpQuestion
		var createdAt int64
		if err := rows.Scan(&q.Id, &q.Question, &q.Answer, &createdAt); err != nil {
			return nil, err
		}
		q.CreatedAt = fromNanos(createdAt)
		idea.FollowUpQuestions = append(idea.FollowUpQuestions, q)
	}

	return idea, rows.Err()
}

func (r *SQLRepo) AppendFollowUp(ctx context.Context, ideaId string, question domain.FollowUpQuestion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, r.rebind(`SELECT COUNT(*) FROM idea WHERE id = ?`), ideaId).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check idea %s: %w", ideaId, err)
	} else if exists == 0 {
		return fmt.Errorf("idea %s: %w", ideaId, domain.ErrNotFound)
	}

	var seq int
	err = tx.QueryRowContext(ctx, r.rebind(`SELECT COALESCE(MAX(seq), 0) + 1 FROM follow_up_question WHERE idea_id = ?`), ideaId).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next follow-up seq %s: %w", ideaId, err)
	}

	if err := r.insertFollowUp(ctx, tx, ideaId, seq, question); err != nil {
		return err
	}

	return tx.Commit()
}
