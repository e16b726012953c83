package domain

import (
	"errors"
	"regexp"
	"strings"
)

// CustomerInfo is collected in the first checkout step and immutable afterwards
// within a session, except through an explicit backward navigation.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the fields required to leave the customer-info step.
// Address fields are required only when the storefront collects shipping.
func (c CustomerInfo) Validate(collectShipping bool) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name required")
	}
	if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		return errors.New("valid email required")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return errors.New("phone required")
	}
	if collectShipping {
		for _, f := range []struct{ name, value string }{
			{"address", c.Address},
			{"city", c.City},
			{"state", c.State},
			{"zip", c.Zip},
		} {
			if strings.TrimSpace(f.value) == "" {
				return errors.New(f.name + " required")
			}
		}
	}
	return nil
}
