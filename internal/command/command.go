// Package command assembles the cfn-policy-validator command line.
package command

import (
	"strings"

	"github.com/outofoffice3/policy-validator-action/internal/resolver"
	"github.com/outofoffice3/policy-validator-action/internal/schema"
	"github.com/outofoffice3/policy-validator-action/internal/shared"
)

// Command is an argv: tool name, operation name, then flags.
type Command []string

// Tool returns the executable name.
func (c Command) Tool() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Operation returns the validator subcommand.
func (c Command) Operation() string {
	if len(c) < 2 {
		return ""
	}
	return c[1]
}

func (c Command) String() string {
	return strings.Join(c, " ")
}

// Build looks up the schema of checkType and assembles the command.
func Build(tool string, checkType shared.CheckType, src shared.InputSource) (Command, error) {
	required, err := schema.RequiredInputs(checkType)
	if err != nil {
		return nil, err
	}
	optional, err := schema.OptionalInputs(checkType)
	if err != nil {
		return nil, err
	}
	return BuildWith(tool, checkType, src, required, optional)
}

// BuildWith assembles [tool, operation, required..., optional..., flag].
// The non-blocking flag, when set, is always the last token.
func BuildWith(tool string, checkType shared.CheckType, src shared.InputSource, required, optional []shared.InputKey) (Command, error) {
	if tool == "" {
		tool = shared.DefaultValidatorBin
	}

	requiredPairs, err := resolver.Resolve(src, required, true)
	if err != nil {
		return nil, err
	}
	optionalPairs, err := resolver.Resolve(src, optional, false)
	if err != nil {
		return nil, err
	}
	nonBlocking, err := resolver.NonBlockingFlag(src, checkType)
	if err != nil {
		return nil, err
	}

	cmd := Command{tool, checkType.OperationName()}
	for _, pair := range requiredPairs {
		cmd = append(cmd, pair.Tokens()...)
	}
	for _, pair := range optionalPairs {
		cmd = append(cmd, pair.Tokens()...)
	}
	return append(cmd, nonBlocking...), nil
}
