// Package preflight checks that AWS credentials work before the validator
// is started.
package preflight

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/accessanalyzer"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/policy-validator-action/internal/shared"
)

type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type AccessAnalyzerAPI interface {
	ListAnalyzers(ctx context.Context, params *accessanalyzer.ListAnalyzersInput, optFns ...func(*accessanalyzer.Options)) (*accessanalyzer.ListAnalyzersOutput, error)
}

// Identity is the caller the validator will run as.
type Identity struct {
	Account string
	Arn     string
	UserId  string
}

// Run resolves the caller identity. The custom policy checks call Access
// Analyzer, so for those the API is called as well; aaClient may be nil for
// VALIDATE_POLICY.
func Run(ctx context.Context, checkType shared.CheckType, stsClient STSAPI, aaClient AccessAnalyzerAPI, sos logger.Logger) (Identity, error) {
	if stsClient == nil {
		return Identity{}, shared.PreflightError{Service: shared.STS, Message: "client is not set"}
	}
	out, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		sos.Errorf("preflight: unable to resolve caller identity : %v", err)
		return Identity{}, shared.PreflightError{Service: shared.STS, Message: err.Error()}
	}
	identity := Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserId:  aws.ToString(out.UserId),
	}
	sos.Infof("preflight: running as [%s] in account [%s]", identity.Arn, identity.Account)

	if !checkType.UsesNonBlockingFlag() {
		return identity, nil
	}

	if aaClient == nil {
		return identity, shared.PreflightError{Service: shared.ACCESS_ANALYZER, Message: "client is not set"}
	}
	if _, err := aaClient.ListAnalyzers(ctx, &accessanalyzer.ListAnalyzersInput{MaxResults: aws.Int32(1)}); err != nil {
		sos.Errorf("preflight: access analyzer is not reachable : %v", err)
		return identity, shared.PreflightError{Service: shared.ACCESS_ANALYZER, Message: err.Error()}
	}
	sos.Debugf("preflight: access analyzer reachable")
	return identity, nil
}
