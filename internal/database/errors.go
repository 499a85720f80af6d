package database

import (
	"context"
	"errors"

	"github.com/go-while/go-pugtodo/internal/models"
	"github.com/mattn/go-sqlite3"
	"go.mongodb.org/mongo-driver/mongo"
)

// classifySQLiteError wraps err into a models.Error with a kind derived from the sqlite result code
func classifySQLiteError(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := models.KindInternal
	var sqErr sqlite3.Error
	switch {
	case errors.As(err, &sqErr):
		switch sqErr.Code {
		case sqlite3.ErrConstraint:
			kind = models.KindInvalidInput
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr, sqlite3.ErrFull, sqlite3.ErrReadonly:
			kind = models.KindUnavailable
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = models.KindUnavailable
	case err.Error() == "sql: database is closed":
		kind = models.KindUnavailable
	}
	return &models.Error{Kind: kind, Op: op, Err: err}
}

// classifyMongoError wraps err into a models.Error with a kind derived from the driver error
func classifyMongoError(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := models.KindInternal
	var writeErr mongo.WriteException
	switch {
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = models.KindUnavailable
	case errors.As(err, &writeErr) && writeErr.HasErrorCode(121):
		// 121 DocumentValidationFailure from a collection validator
		kind = models.KindInvalidInput
	}
	return &models.Error{Kind: kind, Op: op, Err: err}
}
