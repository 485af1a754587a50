package directory

import (
	"errors"
	"fmt"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
	"github.com/epccam/directory-api/internal/validate"
)

// badRequest is the message of a payload missing a required field.
const badRequest = "Bad request"

// storeError converts a store failure into a domain error. dupMessage is
// reported for store.ErrDuplicate. Constraint violations other than
// uniqueness, such as deleting a still-referenced row, are persistence
// failures. Errors that already are domain errors pass through unchanged.
func storeError(op string, err error, dupMessage string) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, store.ErrNotFound):
		return domain.NewResourceNotFoundError()
	case errors.Is(err, store.ErrDuplicate):
		if dupMessage == "" {
			dupMessage = badRequest
		}
		return domain.NewConflictError(dupMessage, err)
	default:
		return domain.NewPersistenceError(op, err)
	}
}

// parentError reports a parent assignment that would close a cycle as a
// field error. A cycle met while reading is left to storeError, which treats
// it as corrupted data.
func parentError(err error) error {
	if errors.Is(err, domain.ErrHierarchyCycle) {
		return domain.NewFieldError("parent", "parent would create a cycle in the hierarchy")
	}
	return err
}

// referenceError reports a missing referenced entity as 404 with the
// entity's own message, e.g. "That sub-division 4 doesnt exist". Any other
// failure goes through storeError.
func referenceError(op, entity string, id int64, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.NewNotFoundError(entity, id)
	}
	return storeError(op, err, "")
}

// invalid turns field errors into a 400 validation error.
func invalid(fields validate.FieldErrors) error {
	return domain.NewValidationError(badRequest, fields)
}

// invalidDate is the error of an unparsable date field.
func invalidDate(field, value string) error {
	msg := fmt.Sprintf("The date %s is an invalid date", value)
	return domain.NewValidationError(msg, map[string]string{field: msg})
}

// deletedMessage is the confirmation returned by every delete.
func deletedMessage(entity string, id int64) string {
	return fmt.Sprintf("the %s with ID %d has been deleted", entity, id)
}
