package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func (p *WebhookPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid webhook payload: %w", err)
	}
	return nil
}
