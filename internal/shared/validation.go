package shared

import (
	"regexp"
	"strings"
)

// IAM action pattern: <service-namespace>:<action-name>
var iamActionRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+:[a-zA-Z0-9_\*\?]+$`)

// validate a single iam action
func IsValidAction(action string) bool {
	return iamActionRegex.MatchString(action)
}

// SplitActions splits a comma separated action list, dropping empty items.
func SplitActions(actions string) []string {
	var out []string
	for _, action := range strings.Split(actions, ",") {
		action = strings.TrimSpace(action)
		if action != "" {
			out = append(out, action)
		}
	}
	return out
}

// ParseCheckType returns the check type for a selector value.
func ParseCheckType(value string) (CheckType, error) {
	checkType, ok := validCheckTypes[value]
	if !ok {
		return "", InvalidCheckTypeError{Value: value}
	}
	return checkType, nil
}

// ParseFlag accepts only the literals True and False.
func ParseFlag(key InputKey, value string) (bool, error) {
	switch value {
	case FlagTrue:
		return true, nil
	case FlagFalse:
		return false, nil
	}
	return false, InvalidFlagValueError{Key: key, Value: value, Reason: "expected True or False"}
}

// ParseOptionalFlag is ParseFlag with "" read as False.
func ParseOptionalFlag(key InputKey, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return ParseFlag(key, value)
}

// IsKnownInput reports whether key is an input this action declares.
func IsKnownInput(key InputKey) bool {
	return knownInputs[key]
}
