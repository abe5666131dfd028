package awsclientmgr

import "github.com/outofoffice3/policy-validator-action/internal/shared"

type AWSServiceName = shared.AwsServiceName

const (
	S3  AWSServiceName = shared.S3
	STS AWSServiceName = shared.STS
	AA  AWSServiceName = shared.ACCESS_ANALYZER
)

// environment handed to the validator when a role is assumed
const (
	envAccessKeyID     = "AWS_ACCESS_KEY_ID"
	envSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	envSessionToken    = "AWS_SESSION_TOKEN"
	envRegion          = "AWS_REGION"
	envDefaultRegion   = "AWS_DEFAULT_REGION"

	roleSessionName = "policy-validator-action"
)
