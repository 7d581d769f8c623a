// Package domain holds the typed identifiers shared across modules.
// Each entity gets its own ID type so a service ID can never be passed
// where a parameter ID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "quotient/pkg/domain-errors"
)

type ServiceID uuid.UUID

func NewServiceID() ServiceID       { return ServiceID(uuid.New()) }
func (id ServiceID) String() string { return uuid.UUID(id).String() }
func (id ServiceID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func ParseServiceID(s string) (ServiceID, error) {
	u, err := parseUUID(s, "service_id")
	return ServiceID(u), err
}

type ParameterID uuid.UUID

func NewParameterID() ParameterID     { return ParameterID(uuid.New()) }
func (id ParameterID) String() string { return uuid.UUID(id).String() }
func (id ParameterID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func ParseParameterID(s string) (ParameterID, error) {
	u, err := parseUUID(s, "parameter_id")
	return ParameterID(u), err
}

type OptionID uuid.UUID

func NewOptionID() OptionID        { return OptionID(uuid.New()) }
func (id OptionID) String() string { return uuid.UUID(id).String() }
func (id OptionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func ParseOptionID(s string) (OptionID, error) {
	u, err := parseUUID(s, "option_id")
	return OptionID(u), err
}

type CalculationID uuid.UUID

func NewCalculationID() CalculationID   { return CalculationID(uuid.New()) }
func (id CalculationID) String() string { return uuid.UUID(id).String() }
func (id CalculationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func ParseCalculationID(s string) (CalculationID, error) {
	u, err := parseUUID(s, "calculation_id")
	return CalculationID(u), err
}

// MarshalText / UnmarshalText make the typed IDs render as canonical
// UUID strings in JSON and database scans.

func (id ServiceID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ServiceID) UnmarshalText(b []byte) error {
	parsed, err := ParseServiceID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ParameterID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ParameterID) UnmarshalText(b []byte) error {
	parsed, err := ParseParameterID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id OptionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *OptionID) UnmarshalText(b []byte) error {
	parsed, err := ParseOptionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id CalculationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *CalculationID) UnmarshalText(b []byte) error {
	parsed, err := ParseCalculationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be nil")
	}
	return u, nil
}
