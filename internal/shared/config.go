package shared

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig builds a Config from a list of KEY=value pairs, as returned by
// os.Environ. Every INPUT_* variable lands in Inputs.
func LoadConfig(environ []string) Config {
	cfg := Config{
		Inputs: make(map[InputKey]string),
	}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(name, InputPrefix) {
			cfg.Inputs[InputKey(name)] = value
		}
		switch EnvVar(name) {
		case EnvGithubOutput:
			cfg.OutputPath = value
		case EnvValidatorBin:
			cfg.ValidatorBin = value
		}
	}
	cfg.applySettings()
	return cfg
}

// applySettings copies adapter settings out of Inputs and fills defaults.
func (c *Config) applySettings() {
	c.CheckType = c.Input(InputKey(EnvPolicyCheckType))
	c.PreflightCheck = c.Input(InputKey(EnvPreflightCheck))
	c.RoleToAssume = c.Input(InputKey(EnvRoleToAssume))
	c.ArchiveBucket = c.Input(InputKey(EnvResultArchiveBucket))
	c.ArchivePrefix = c.Input(InputKey(EnvResultArchivePrefix))
	if c.ArchivePrefix == "" {
		c.ArchivePrefix = DefaultArchivePrefix
	}
	if c.ValidatorBin == "" {
		c.ValidatorBin = DefaultValidatorBin
	}
}

// MergeInputs fills inputs that the environment left empty. Environment
// values always win.
func (c *Config) MergeInputs(inputs map[InputKey]string) {
	for key, value := range inputs {
		if c.Input(key) == "" {
			c.SetInput(key, value)
		}
	}
	c.applySettings()
}

// LoadInputsFile reads a YAML mapping of input names to values, e.g.
//
//	policy-check-type: VALIDATE_POLICY
//	template-path: ./template.yaml
//	region: us-east-1
func LoadInputsFile(path string) (map[InputKey]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load inputs %q: %w", path, err)
	}
	return LoadInputsFromBytes(data)
}

// LoadInputsFromBytes parses an inputs document. Keys may be given with or
// without the INPUT_ prefix and in any case; unknown inputs are rejected.
func LoadInputsFromBytes(data []byte) (map[InputKey]string, error) {
	raw := map[string]string{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, ConfigError{Message: "parse inputs YAML: " + err.Error()}
	}

	inputs := make(map[InputKey]string, len(raw))
	for name, value := range raw {
		key := NormalizeInputKey(name)
		if !IsKnownInput(key) {
			return nil, ConfigError{Message: fmt.Sprintf("unknown input %q", name)}
		}
		inputs[key] = value
	}
	return inputs, nil
}

// NormalizeInputKey turns "template-path" into INPUT_TEMPLATE-PATH.
func NormalizeInputKey(name string) InputKey {
	name = strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(name, InputPrefix) {
		name = InputPrefix + name
	}
	return InputKey(name)
}
