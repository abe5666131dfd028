package awsclientmgr

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/accessanalyzer"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/outofoffice3/common/logger"
)

type AWSClientMgr interface {
	// get aws sdk client
	GetSDKClient(ctx context.Context, name AWSServiceName) (interface{}, error)
	// credentials for the validator subprocess, nil when no role is assumed
	GetCredentialsEnv(ctx context.Context) ([]string, error)
	// return the region clients are created for
	GetRegion() string
}

type _AWSClientMgr struct {
	mu           sync.Mutex
	cfg          *aws.Config
	loaded       bool
	region       string
	roleToAssume string
	loadOptions  []func(*config.LoadOptions) error
	stsClient    stscreds.AssumeRoleAPIClient
	clients      map[AWSServiceName]interface{}
	logger       logger.Logger
}

type AWSClientMgrInitConfig struct {
	Region       string
	RoleToAssume string
	// Cfg skips config.LoadDefaultConfig when set
	Cfg         *aws.Config
	LoadOptions []func(*config.LoadOptions) error
	// StsClient is used for role assumption, defaults to sts.NewFromConfig
	StsClient stscreds.AssumeRoleAPIClient
	Logger    logger.Logger
}

// Init returns a client manager. No AWS call is made until a client or
// credentials are requested.
func Init(pkgConfig AWSClientMgrInitConfig) (AWSClientMgr, error) {
	if pkgConfig.Logger == nil {
		return nil, errors.New("logger is not set")
	}
	return &_AWSClientMgr{
		cfg:          pkgConfig.Cfg,
		region:       pkgConfig.Region,
		roleToAssume: pkgConfig.RoleToAssume,
		loadOptions:  pkgConfig.LoadOptions,
		stsClient:    pkgConfig.StsClient,
		clients:      make(map[AWSServiceName]interface{}),
		logger:       pkgConfig.Logger,
	}, nil
}

// loadConfig loads the sdk config once. Must be called with mu held.
func (a *_AWSClientMgr) loadConfig(ctx context.Context) (aws.Config, error) {
	if a.loaded {
		return *a.cfg, nil
	}
	sos := a.logger

	var cfg aws.Config
	if a.cfg != nil {
		cfg = a.cfg.Copy()
	} else {
		opts := append([]func(*config.LoadOptions) error{}, a.loadOptions...)
		if a.region != "" {
			opts = append(opts, config.WithRegion(a.region))
		}
		loaded, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			sos.Errorf("failed to load SDK config, %v", err)
			return aws.Config{}, err
		}
		cfg = loaded
	}
	if a.region != "" {
		cfg.Region = a.region
	}

	if a.roleToAssume != "" {
		stsClient := a.stsClient
		if stsClient == nil {
			stsClient = sts.NewFromConfig(cfg)
		}
		creds := stscreds.NewAssumeRoleProvider(stsClient, a.roleToAssume, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = roleSessionName
		})
		sos.Infof("assuming role [%s]", a.roleToAssume)
		cfg.Credentials = aws.NewCredentialsCache(creds)
	}

	sos.Infof("SDK config loaded for region [%s]", cfg.Region)
	a.cfg = &cfg
	a.loaded = true
	return cfg, nil
}

// get aws sdk client
func (a *_AWSClientMgr) GetSDKClient(ctx context.Context, serviceName AWSServiceName) (interface{}, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if client, ok := a.clients[serviceName]; ok {
		return client, nil
	}

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	var client interface{}
	switch serviceName {
	case S3: // S3 - Simple Storage Service
		client = s3.NewFromConfig(cfg)
	case STS: // STS - Security Token Service
		client = sts.NewFromConfig(cfg)
	case AA: // AccessAnalyzer - Access Analyzer
		client = accessanalyzer.NewFromConfig(cfg)
	default:
		return nil, errors.New("invalid service name [" + string(serviceName) + "]")
	}
	a.logger.Debugf("[%s] client created for region [%s]", serviceName, cfg.Region)
	a.clients[serviceName] = client
	return client, nil
}

// GetCredentialsEnv retrieves the assumed role credentials as KEY=value
// pairs. Without a role the validator resolves credentials on its own and
// nil is returned.
func (a *_AWSClientMgr) GetCredentialsEnv(ctx context.Context) ([]string, error) {
	if a.roleToAssume == "" {
		return nil, nil
	}

	a.mu.Lock()
	cfg, err := a.loadConfig(ctx)
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}

	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		a.logger.Errorf("failed to retrieve credentials for role [%s] : %v", a.roleToAssume, err)
		return nil, err
	}
	return []string{
		envAccessKeyID + "=" + creds.AccessKeyID,
		envSecretAccessKey + "=" + creds.SecretAccessKey,
		envSessionToken + "=" + creds.SessionToken,
		envRegion + "=" + cfg.Region,
		envDefaultRegion + "=" + cfg.Region,
	}, nil
}

func (a *_AWSClientMgr) GetRegion() string {
	return a.region
}
