package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// invalidTextRepresentation is raised when a malformed uuid reaches a uuid column.
const invalidTextRepresentation = "22P02"

type txKey struct{}

// TxManager runs functions inside a PostgreSQL transaction carried by the context.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx runs fn in a transaction. Nested calls join the outer transaction.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	var fnErr error
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(context.WithValue(ctx, txKey{}, tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return apperr.Persistence("commit transaction", err)
	}
	return err
}

// conn returns the transaction from ctx, or db bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// translate maps driver errors onto the application error kinds.
func translate(op string, err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(op, notFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict(op, "Already exists")
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperr.Validation(op, "Referenced record does not exist")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return apperr.Validation(op, "Invalid identifier")
	}
	return apperr.Persistence(op, err)
}
