package directory

import (
	"fmt"

	"github.com/rawen554/userdir/internal/models"
)

const (
	FieldName     = "name"
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldWebsite  = "website"
	FieldStreet   = "street"
	FieldSuite    = "suite"
	FieldCity     = "city"
)

// Fields lists every settable draft field in form order.
var Fields = []string{
	FieldName, FieldUsername, FieldEmail, FieldPhone, FieldWebsite,
	FieldStreet, FieldSuite, FieldCity,
}

// NewDraft returns the blank add template.
func NewDraft() models.Draft {
	return models.Draft{}
}

// SetField returns a copy of draft with one field changed. Address fields get a
// fresh address value with the other address fields carried over.
func SetField(draft models.Draft, field string, value string) (models.Draft, error) {
	next := draft

	switch field {
	case FieldStreet, FieldSuite, FieldCity:
		addr := draft.Address
		switch field {
		case FieldStreet:
			addr.Street = value
		case FieldSuite:
			addr.Suite = value
		case FieldCity:
			addr.City = value
		}
		next.Address = addr
	case FieldName:
		next.Name = value
	case FieldUsername:
		next.Username = value
	case FieldEmail:
		next.Email = value
	case FieldPhone:
		next.Phone = value
	case FieldWebsite:
		next.Website = value
	default:
		return draft, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	return next, nil
}

func validate(draft models.Draft) error {
	var missing []string
	if draft.Name == "" {
		missing = append(missing, FieldName)
	}
	if draft.Username == "" {
		missing = append(missing, FieldUsername)
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
