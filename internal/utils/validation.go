package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateDelay validates the delay flag value
func ValidateDelay(delay int) error {
	if err := validate.Var(delay, "min=0,max=300"); err != nil {
		return fmt.Errorf("delay must be between 0 and 300 seconds, got %d", delay)
	}
	return nil
}

// ValidateRepositoryName checks that name is a bare repository name
func ValidateRepositoryName(name string) error {
	if err := validate.Var(name, "required,excludesall=/ "); err != nil {
		return fmt.Errorf("invalid repository name format '%s'", name)
	}
	return nil
}
