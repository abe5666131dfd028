// Package resolver turns input values into validator command line flags.
package resolver

import (
	"github.com/outofoffice3/policy-validator-action/internal/shared"
)

// Resolve looks up every key in src. Present values become flag pairs. When
// mustBePresent is set, empty or unset keys are collected and reported
// together as a MissingRequiredInputError, before any value is checked;
// otherwise they are skipped.
func Resolve(src shared.InputSource, keys []shared.InputKey, mustBePresent bool) ([]shared.FlagPair, error) {
	var (
		pairs   []shared.FlagPair
		missing []shared.InputKey
	)
	for _, key := range keys {
		// GitHub Actions passes unset inputs to the container as empty strings
		value := src.Input(key)
		if value == "" {
			if mustBePresent {
				missing = append(missing, key)
			}
			continue
		}
		pairs = append(pairs, shared.FlagPair{Key: key, Value: value})
	}
	if len(missing) > 0 {
		return nil, shared.MissingRequiredInputError{Keys: missing}
	}
	for _, pair := range pairs {
		if err := validateValue(pair.Key, pair.Value); err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

// NonBlockingFlag resolves --treat-findings-as-non-blocking. The input is
// only read for check types that support it.
func NonBlockingFlag(src shared.InputSource, checkType shared.CheckType) ([]string, error) {
	if !checkType.UsesNonBlockingFlag() {
		return nil, nil
	}
	key := shared.InputTreatFindingsAsNonBlocking
	on, err := shared.ParseFlag(key, src.Input(key))
	if err != nil {
		return nil, err
	}
	if !on {
		return nil, nil
	}
	return []string{key.Flag()}, nil
}

// validateValue rejects values the validator would fail on late.
func validateValue(key shared.InputKey, value string) error {
	if key != shared.InputActions {
		return nil
	}
	actions := shared.SplitActions(value)
	if len(actions) == 0 {
		return shared.InvalidFlagValueError{Key: key, Value: value, Reason: "no actions listed"}
	}
	for _, action := range actions {
		if !shared.IsValidAction(action) {
			return shared.InvalidFlagValueError{Key: key, Value: value, Reason: "invalid action " + action}
		}
	}
	return nil
}
