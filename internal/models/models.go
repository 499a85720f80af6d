// Package models defines core data structures for go-pugtodo
package models

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MaxTextLength is the maximum number of characters an item text may hold
const MaxTextLength = 255

// Item represents a single entry of the TODO list
type Item struct {
	ID   string `json:"id" bson:"_id,omitempty" db:"id"`
	Text string `json:"todo" bson:"todo" db:"text" validate:"notblank,max=255"`
}

// ItemForm is the form payload of the create and edit-submit routes
type ItemForm struct {
	Todo string `form:"todo" json:"todo"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance with the custom tags registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			panic(fmt.Sprintf("failed to register notblank validation: %v", err))
		}
		validate = v
	})
	return validate
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateText normalizes raw item text and checks it against the Item constraints.
// It returns the normalized text that should be persisted.
func ValidateText(op, raw string) (string, error) {
	text := NormalizeText(raw)
	if err := Validator().Struct(&Item{Text: text}); err != nil {
		return "", &Error{Kind: KindInvalidInput, Op: op, Err: describeValidation(err)}
	}
	return text, nil
}

// describeValidation turns validator errors into a message fit for the client
func describeValidation(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "notblank":
			return fmt.Errorf("todo text is required")
		case "max":
			return fmt.Errorf("todo text must be at most %d characters", MaxTextLength)
		}
	}
	return err
}
