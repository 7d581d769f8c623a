package pricing

import (
	"fmt"

	dErrors "quotient/pkg/domain-errors"
)

// Detail keys attached to engine validation errors.
const (
	// DetailMissingParameters carries the []string of required parameter
	// names absent from the request.
	DetailMissingParameters = "missing_parameters"
	// DetailParameter carries the parameter name of an invalid value.
	DetailParameter = "parameter"
	// DetailValue carries the offending value.
	DetailValue = "value"
)

// errMissingParameters reports every absent required parameter at once so
// callers can fix a request in one round trip.
func errMissingParameters(names []string) error {
	return dErrors.New(dErrors.CodeValidation, "missing required parameters").
		WithDetail(DetailMissingParameters, names)
}

func errInvalidValue(parameter, value string) error {
	return dErrors.New(dErrors.CodeValidation,
		fmt.Sprintf("Invalid value '%s' for parameter '%s'", value, parameter)).
		WithDetail(DetailParameter, parameter).
		WithDetail(DetailValue, value)
}

func errAmbiguousOption(parameter, value string) error {
	return dErrors.New(dErrors.CodeDataIntegrity,
		fmt.Sprintf("multiple options match value '%s' for parameter '%s'", value, parameter))
}

func errUnknownType(parameter, ptype string) error {
	return dErrors.New(dErrors.CodeDataIntegrity,
		fmt.Sprintf("parameter '%s' has unrecognized type '%s'", parameter, ptype))
}

// MissingParameters extracts the missing-parameter list from an engine
// error, or nil if err is not a missing-required failure.
func MissingParameters(err error) []string {
	details := dErrors.DetailsOf(err)
	if details == nil {
		return nil
	}
	names, _ := details[DetailMissingParameters].([]string)
	return names
}
