package mongostore

import (
	"errors"

	"github.com/billing/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/mongo"
)

// translateWriteError turns a unique index violation into a
// *shared.DuplicateKeyError naming the indexed field. The field is read from
// the keyPattern the server reports; fallback is used when it is missing.
func translateWriteError(err error, fallback string) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	field := duplicateKeyField(err)
	if field == "" {
		field = fallback
	}
	return shared.NewDuplicateKeyError(field, err)
}

func duplicateKeyField(err error) string {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return ""
	}
	for _, writeErr := range we.WriteErrors {
		if len(writeErr.Raw) == 0 {
			continue
		}
		keyPattern, ok := writeErr.Raw.Lookup("keyPattern").DocumentOK()
		if !ok {
			continue
		}
		elements, err := keyPattern.Elements()
		if err != nil || len(elements) == 0 {
			continue
		}
		return elements[0].Key()
	}
	return ""
}
