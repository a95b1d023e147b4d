package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/gamification"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type capturedStmt struct {
	sql  string
	vars []interface{}
}

// dryRunDB builds statements with the postgres dialect without a server and
// records every rendered update and query.
func dryRunDB(t *testing.T) (*gorm.DB, *[]capturedStmt) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=ideahub dbname=ideahub sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var stmts []capturedStmt
	capture := func(tx *gorm.DB) {
		stmts = append(stmts, capturedStmt{sql: tx.Statement.SQL.String(), vars: tx.Statement.Vars})
	}
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:capture_update", capture))
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", capture))
	return db, &stmts
}

var placeholder = regexp.MustCompile(`\$(\d+)`)

// highestPlaceholder returns the largest $N bind index in sql.
func highestPlaceholder(t *testing.T, sql string) int {
	t.Helper()
	highest := 0
	for _, m := range placeholder.FindAllStringSubmatch(sql, -1) {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		if n > highest {
			highest = n
		}
	}
	return highest
}

func TestAddPointsBuildsSingleReturningUpdate(t *testing.T) {
	db, stmts := dryRunDB(t)
	repo := NewPostgresProfileRepository(db)
	userID := uuid.NewString()

	// Dry runs affect no rows, so the repository reports the profile as missing.
	_, err := repo.AddPoints(context.Background(), userID, 5)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.Len(t, *stmts, 1)
	stmt := (*stmts)[0]
	_, tierArgs := gamification.LevelCaseSQL("points + ?")

	assert.Contains(t, stmt.sql, `UPDATE "profiles" SET`)
	assert.Contains(t, stmt.sql, `"points"=points + $`)
	assert.Contains(t, stmt.sql, `"level"=CASE WHEN points + $1 >= 1000 THEN 'Master'`)
	assert.Contains(t, stmt.sql, "ELSE 'Beginner' END")
	assert.Contains(t, stmt.sql, "WHERE id = $")
	assert.Contains(t, stmt.sql, "RETURNING *")

	// tier bounds, the points increment, updated_at and the id
	require.Len(t, stmt.vars, tierArgs+3)
	assert.Equal(t, len(stmt.vars), highestPlaceholder(t, stmt.sql))
	for i := 0; i <= tierArgs; i++ {
		assert.Equal(t, 5, stmt.vars[i], fmt.Sprintf("var %d", i))
	}
	assert.IsType(t, time.Time{}, stmt.vars[tierArgs+1])
	assert.Equal(t, userID, stmt.vars[len(stmt.vars)-1])
}

func TestGetPendingStepsOrdersBySagaSequence(t *testing.T) {
	db, stmts := dryRunDB(t)
	repo := NewPostgresSagaStepRepository(db)
	cutoff := time.Now().Add(-time.Minute)

	steps, err := repo.GetPendingSteps(context.Background(), cutoff, 50)
	require.NoError(t, err)
	assert.Empty(t, steps)

	require.Len(t, *stmts, 1)
	stmt := (*stmts)[0]
	assert.Contains(t, stmt.sql, `FROM "saga_steps" WHERE status = $1 AND created_at < $2`)
	assert.Contains(t, stmt.sql, "ORDER BY created_at, saga_id, seq LIMIT $3")
	require.Len(t, stmt.vars, 3)
	assert.Equal(t, models.StepPending, stmt.vars[0])
	assert.Equal(t, cutoff, stmt.vars[1])
	assert.Equal(t, 50, stmt.vars[2])
}

func TestGetTagsByIDsSkipsMalformedIDs(t *testing.T) {
	db, stmts := dryRunDB(t)
	repo := NewPostgresTaxonomyRepository(db)
	ctx := context.Background()

	tags, err := repo.GetTagsByIDs(ctx, []string{"solar", ""})
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Empty(t, *stmts)

	id := uuid.NewString()
	_, err = repo.GetTagsByIDs(ctx, []string{"solar", id})
	require.NoError(t, err)
	require.Len(t, *stmts, 1)
	assert.Contains(t, (*stmts)[0].sql, "WHERE id IN ($1)")
	assert.Equal(t, []interface{}{id}, (*stmts)[0].vars)
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{"gorm not found", gorm.ErrRecordNotFound, apperr.ErrNotFound},
		{"mongo not found", mongo.ErrNoDocuments, apperr.ErrNotFound},
		{"duplicate key", gorm.ErrDuplicatedKey, apperr.ErrConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, apperr.ErrValidation},
		{"malformed uuid", &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}, apperr.ErrValidation},
		{"other driver error", &pgconn.PgError{Code: "57P01"}, apperr.ErrPersistence},
		{"connection", errors.New("connection reset"), apperr.ErrPersistence},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := translate("op", tc.err, "Thing not found")
			assert.True(t, errors.Is(err, tc.kind), err.Error())
		})
	}

	assert.NoError(t, translate("op", nil, ""))
	assert.Equal(t, "Invalid identifier", apperr.PublicMessage(translate("op", &pgconn.PgError{Code: "22P02"}, "")))
}
