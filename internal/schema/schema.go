// Package schema holds the required and optional inputs of every policy check.
package schema

import (
	"github.com/outofoffice3/policy-validator-action/internal/shared"
)

// InputSchema lists the required and optional inputs of a check type.
type InputSchema struct {
	Required []shared.InputKey
	Optional []shared.InputKey
}

var (
	// required by every check, excluding the policy-check-type selector
	commonRequired = []shared.InputKey{
		shared.InputTemplatePath,
		shared.InputRegion,
	}

	// optional for every check, excluding the non-blocking flag which
	// needs special handling
	commonOptional = []shared.InputKey{
		shared.InputParameters,
		shared.InputTemplateConfigurationFile,
		shared.InputIgnoreFinding,
		shared.InputAllowDynamicRefWithoutVersion,
		shared.InputExcludeResourceTypes,
	}
)

// specific returns the check specific part of the schema. The switch must
// name every value in shared.CheckTypes; TestSchemaCoversEveryCheckType
// guards that.
func specific(checkType shared.CheckType) (InputSchema, error) {
	switch checkType {
	case shared.ValidatePolicy:
		return InputSchema{
			Optional: []shared.InputKey{
				shared.InputAllowExternalPrincipals,
				shared.InputTreatFindingTypeAsBlocking,
			},
		}, nil
	case shared.CheckNoNewAccess:
		return InputSchema{
			Required: []shared.InputKey{
				shared.InputReferencePolicy,
				shared.InputReferencePolicyType,
			},
		}, nil
	case shared.CheckAccessNotGranted:
		return InputSchema{
			Required: []shared.InputKey{
				shared.InputActions,
			},
		}, nil
	}
	return InputSchema{}, shared.InvalidCheckTypeError{Value: string(checkType)}
}

// RequiredInputs returns common plus check specific required inputs.
func RequiredInputs(checkType shared.CheckType) ([]shared.InputKey, error) {
	s, err := specific(checkType)
	if err != nil {
		return nil, err
	}
	return union(commonRequired, s.Required), nil
}

// OptionalInputs returns check specific plus common optional inputs.
func OptionalInputs(checkType shared.CheckType) ([]shared.InputKey, error) {
	s, err := specific(checkType)
	if err != nil {
		return nil, err
	}
	return union(s.Optional, commonOptional), nil
}

// Lookup returns the full schema of a check type.
func Lookup(checkType shared.CheckType) (InputSchema, error) {
	required, err := RequiredInputs(checkType)
	if err != nil {
		return InputSchema{}, err
	}
	optional, err := OptionalInputs(checkType)
	if err != nil {
		return InputSchema{}, err
	}
	return InputSchema{Required: required, Optional: optional}, nil
}

func union(a, b []shared.InputKey) []shared.InputKey {
	out := make([]shared.InputKey, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
