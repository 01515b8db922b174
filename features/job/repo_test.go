package job_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/NazzX1/rag-v2/features/job"
)

func TestPostgresRepo_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := job.NewPostgresRepo(db)

	j := &job.Job{
		Handler: "chunk.embed",
		Payload: json.RawMessage(`{"chunk_id":"c1"}`),
		Error:   "embed failed",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO jobs (handler, payload, error) VALUES ($1, $2, $3) RETURNING id, created_at, retries")).
		WithArgs("chunk.embed", j.Payload, "embed failed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "retries"}).AddRow("j1", time.Now(), 0))

	err = repo.Save(context.Background(), j)
	assert.NoError(t, err)
	assert.Equal(t, "j1", j.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_RecordFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := job.NewPostgresRepo(db)

	payload := []byte(`{"chunk_id":"c1"}`)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO jobs")).
		WithArgs("chunk.embed", json.RawMessage(payload), "nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "retries"}).AddRow("j1", time.Now(), 0))

	err = repo.RecordFailure(context.Background(), "chunk.embed", payload, "nope")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := job.NewPostgresRepo(db)

	rows := sqlmock.NewRows([]string{"id", "handler", "payload", "error", "retries", "created_at"}).
		AddRow("j1", "chunk.embed", []byte(`{}`), "boom", 2, time.Now()).
		AddRow("j2", "chunk.embed", []byte(`{"a":1}`), "crash", 0, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, handler, payload, error, retries, created_at FROM jobs ORDER BY created_at DESC")).
		WillReturnRows(rows)

	jobs, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, "boom", jobs[0].Error)
	assert.Equal(t, json.RawMessage(`{"a":1}`), jobs[1].Payload)
}

func TestPostgresRepo_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := job.NewPostgresRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, handler, payload, error, retries, created_at FROM jobs WHERE id = $1")).
		WithArgs("j1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "handler", "payload", "error", "retries", "created_at"}).
			AddRow("j1", "chunk.embed", []byte(`{}`), "boom", 1, time.Now()))

	j, err := repo.Get(context.Background(), "j1")
	assert.NoError(t, err)
	assert.Equal(t, "chunk.embed", j.Handler)
}

func TestPostgresRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := job.NewPostgresRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM jobs WHERE id = $1")).
		WithArgs("j1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "j1"))
}

func TestPostgresRepo_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := job.NewPostgresRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM jobs")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}
