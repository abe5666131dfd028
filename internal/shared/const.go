package shared

const (
	// selector for the policy check the validator runs
	EnvPolicyCheckType EnvVar = "INPUT_POLICY-CHECK-TYPE"
	// file the CI platform collects step outputs from
	EnvGithubOutput EnvVar = "GITHUB_OUTPUT"
	// overrides the validator executable name
	EnvValidatorBin EnvVar = "POLICY_VALIDATOR_BIN"

	// adapter settings, never passed to the validator
	EnvPreflightCheck      EnvVar = "INPUT_PREFLIGHT-CHECK"
	EnvRoleToAssume        EnvVar = "INPUT_ROLE-TO-ASSUME"
	EnvResultArchiveBucket EnvVar = "INPUT_RESULT-ARCHIVE-BUCKET"
	EnvResultArchivePrefix EnvVar = "INPUT_RESULT-ARCHIVE-PREFIX"
)

const (
	InputPrefix          = "INPUT_"
	DefaultValidatorBin  = "cfn-policy-validator"
	DefaultArchivePrefix = "cfn-policy-validator"
	ActionOutputResult   = "result"
	FlagTrue             = "True"
	FlagFalse            = "False"

	// exit code cfn-policy-validator uses when findings were reported
	FindingsDetectedExitCode = 2
)

const (
	ValidatePolicy        CheckType = "VALIDATE_POLICY"
	CheckNoNewAccess      CheckType = "CHECK_NO_NEW_ACCESS"
	CheckAccessNotGranted CheckType = "CHECK_ACCESS_NOT_GRANTED"
)

// inputs forwarded to cfn-policy-validator as --<name> <value>
const (
	InputTemplatePath                  InputKey = "INPUT_TEMPLATE-PATH"
	InputRegion                        InputKey = "INPUT_REGION"
	InputReferencePolicy               InputKey = "INPUT_REFERENCE-POLICY"
	InputReferencePolicyType           InputKey = "INPUT_REFERENCE-POLICY-TYPE"
	InputActions                       InputKey = "INPUT_ACTIONS"
	InputParameters                    InputKey = "INPUT_PARAMETERS"
	InputTemplateConfigurationFile     InputKey = "INPUT_TEMPLATE-CONFIGURATION-FILE"
	InputIgnoreFinding                 InputKey = "INPUT_IGNORE-FINDING"
	InputAllowDynamicRefWithoutVersion InputKey = "INPUT_ALLOW-DYNAMIC-REF-WITHOUT-VERSION"
	InputExcludeResourceTypes          InputKey = "INPUT_EXCLUDE-RESOURCE-TYPES"
	InputAllowExternalPrincipals       InputKey = "INPUT_ALLOW-EXTERNAL-PRINCIPALS"
	InputTreatFindingTypeAsBlocking    InputKey = "INPUT_TREAT-FINDING-TYPE-AS-BLOCKING"

	// standalone flag, handled apart from the generic inputs
	InputTreatFindingsAsNonBlocking InputKey = "INPUT_TREAT-FINDINGS-AS-NON-BLOCKING"
)

// validCheckTypes maps every accepted spelling to its check type.
var validCheckTypes = map[string]CheckType{
	string(ValidatePolicy):        ValidatePolicy,
	string(CheckNoNewAccess):      CheckNoNewAccess,
	string(CheckAccessNotGranted): CheckAccessNotGranted,
	"ValidatePolicy":              ValidatePolicy,
	"CheckNoNewAccess":            CheckNoNewAccess,
	"CheckAccessNotGranted":       CheckAccessNotGranted,
}

// CheckTypes lists the check types in declaration order.
var CheckTypes = []CheckType{ValidatePolicy, CheckNoNewAccess, CheckAccessNotGranted}

// FetchableInputs name files that may be given as s3:// URIs.
var FetchableInputs = []InputKey{InputTemplatePath, InputTemplateConfigurationFile, InputReferencePolicy}

// knownInputs is every input an inputs file may set.
var knownInputs = map[InputKey]bool{
	InputKey(EnvPolicyCheckType):       true,
	InputTemplatePath:                  true,
	InputRegion:                        true,
	InputReferencePolicy:               true,
	InputReferencePolicyType:           true,
	InputActions:                       true,
	InputParameters:                    true,
	InputTemplateConfigurationFile:     true,
	InputIgnoreFinding:                 true,
	InputAllowDynamicRefWithoutVersion: true,
	InputExcludeResourceTypes:          true,
	InputAllowExternalPrincipals:       true,
	InputTreatFindingTypeAsBlocking:    true,
	InputTreatFindingsAsNonBlocking:    true,
	InputKey(EnvPreflightCheck):        true,
	InputKey(EnvRoleToAssume):          true,
	InputKey(EnvResultArchiveBucket):   true,
	InputKey(EnvResultArchivePrefix):   true,
}
