package handle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/policy-validator-action/internal/awsclientmgr"
	"github.com/outofoffice3/policy-validator-action/internal/command"
	"github.com/outofoffice3/policy-validator-action/internal/fetcher"
	"github.com/outofoffice3/policy-validator-action/internal/metricmgr"
	"github.com/outofoffice3/policy-validator-action/internal/preflight"
	"github.com/outofoffice3/policy-validator-action/internal/runner"
	"github.com/outofoffice3/policy-validator-action/internal/shared"
	"github.com/outofoffice3/policy-validator-action/internal/writer"
)

// Dependencies are the collaborators of a single run.
type Dependencies struct {
	Logger logger.Logger
	Runner *runner.Runner
	// ClientMgr is created from the config on first use when nil
	ClientMgr awsclientmgr.AWSClientMgr
	Now       func() time.Time
	// Metrics defaults to a fresh metricmgr.Init()
	Metrics metricmgr.MetricMgr
	// DryRun prints the command to Stdout instead of running it
	DryRun bool
	Stdout io.Writer
}

// Outcome describes what a run did.
type Outcome struct {
	CheckType  shared.CheckType
	Command    command.Command
	Result     shared.ExecutionResult
	Published  string
	ArchiveKey string
	Identity   preflight.Identity
	Metrics    map[metricmgr.Metric]int32
}

// HandleRun validates cfg, runs the validator once and publishes its output.
// Blocking findings are published first and then reported as
// shared.ErrFindingsDetected.
func HandleRun(ctx context.Context, cfg shared.Config, deps Dependencies) (outcome Outcome, err error) {
	sos := deps.Logger

	metrics := deps.Metrics
	if metrics == nil {
		metrics = metricmgr.Init()
	}
	defer func() {
		outcome.Metrics = metrics.Snapshot()
		sos.Debugf("run metrics [%s]", metrics.String())
	}()

	checkType, err := shared.ParseCheckType(cfg.CheckType)
	if err != nil {
		return outcome, err
	}
	outcome.CheckType = checkType
	sos.Debugf("policy check type : [%s]", checkType)

	preflightOn, err := shared.ParseOptionalFlag(shared.InputKey(shared.EnvPreflightCheck), cfg.PreflightCheck)
	if err != nil {
		return outcome, err
	}

	// validate every input before touching AWS
	cmd, err := command.Build(cfg.ValidatorBin, checkType, cfg)
	if err != nil {
		return outcome, err
	}
	outcome.Command = cmd
	record(metrics, sos, metricmgr.CommandFlags, countFlags(cmd))

	if deps.DryRun {
		if deps.Stdout != nil {
			fmt.Fprintln(deps.Stdout, cmd.String())
		}
		return outcome, nil
	}

	if cfg.OutputPath == "" {
		return outcome, shared.ConfigError{Message: string(shared.EnvGithubOutput) + " is not set"}
	}
	if deps.Runner == nil {
		return outcome, errors.New("runner is not set")
	}

	clientMgr := deps.ClientMgr
	needsAWS := preflightOn || cfg.RoleToAssume != "" || cfg.ArchiveBucket != "" || fetcher.NeedsFetch(cfg)
	if clientMgr == nil && needsAWS {
		clientMgr, err = awsclientmgr.Init(awsclientmgr.AWSClientMgrInitConfig{
			Region:       cfg.Input(shared.InputRegion),
			RoleToAssume: cfg.RoleToAssume,
			Logger:       sos,
		})
		if err != nil {
			return outcome, err
		}
	}

	if fetcher.NeedsFetch(cfg) {
		f, err := newFetcher(ctx, clientMgr, sos)
		if err != nil {
			return outcome, err
		}
		defer func() {
			if err := f.Cleanup(); err != nil {
				sos.Errorf("failed to clean up downloads : %v", err)
			}
		}()
		fetched, err := fetcher.FetchInputs(ctx, f, &cfg)
		record(metrics, sos, metricmgr.ObjectsFetched, int32(fetched))
		if err != nil {
			return outcome, err
		}
		// rebuild with the local paths
		cmd, err = command.Build(cfg.ValidatorBin, checkType, cfg)
		if err != nil {
			return outcome, err
		}
		outcome.Command = cmd
	}

	if preflightOn {
		record(metrics, sos, metricmgr.PreflightChecks, 1)
		identity, err := runPreflight(ctx, clientMgr, checkType, sos)
		if err != nil {
			return outcome, err
		}
		outcome.Identity = identity
	}

	var env []string
	if cfg.RoleToAssume != "" {
		env, err = clientMgr.GetCredentialsEnv(ctx)
		if err != nil {
			return outcome, err
		}
	}

	record(metrics, sos, metricmgr.ValidatorRuns, 1)
	result := deps.Runner.Execute(ctx, cmd, env)
	outcome.Result = result
	if result.Status == shared.StatusFatal {
		return outcome, result.Err
	}

	var s3Client writer.S3PutObjectAPI
	if cfg.ArchiveBucket != "" {
		s3Client, err = sdkClient[writer.S3PutObjectAPI](ctx, clientMgr, awsclientmgr.S3)
		if err != nil {
			return outcome, err
		}
	}
	w, err := writer.Init(writer.WriterInitConfig{
		OutputPath: cfg.OutputPath,
		S3Client:   s3Client,
		Logger:     sos,
	})
	if err != nil {
		return outcome, err
	}

	published, err := writer.PublishResult(w, result.Output)
	if err != nil {
		return outcome, err
	}
	outcome.Published = published
	record(metrics, sos, metricmgr.OutputBytes, int32(len(published)))
	sos.Infof("result published to [%s]", cfg.OutputPath)

	if cfg.ArchiveBucket != "" {
		now := time.Now
		if deps.Now != nil {
			now = deps.Now
		}
		key := writer.ArchiveKey(cfg.ArchivePrefix, checkType, now())
		if err := w.ExportToS3(ctx, cfg.ArchiveBucket, key, []byte(result.Output)); err != nil {
			return outcome, err
		}
		outcome.ArchiveKey = key
		record(metrics, sos, metricmgr.ObjectsArchived, 1)
	}

	if result.Status == shared.StatusFindingsDetected {
		return outcome, shared.ErrFindingsDetected
	}
	return outcome, nil
}

// record bumps a run metric. A failed update is logged and never fails the run.
func record(metrics metricmgr.MetricMgr, sos logger.Logger, metric metricmgr.Metric, value int32) {
	if err := metrics.IncrementMetric(metric, value); err != nil {
		sos.Debugf("metric [%s] not recorded : %v", metric, err)
	}
}

func countFlags(cmd command.Command) int32 {
	var n int32
	for _, token := range cmd {
		if strings.HasPrefix(token, "--") {
			n++
		}
	}
	return n
}

func newFetcher(ctx context.Context, clientMgr awsclientmgr.AWSClientMgr, sos logger.Logger) (fetcher.Fetcher, error) {
	s3Client, err := sdkClient[fetcher.S3GetObjectAPI](ctx, clientMgr, awsclientmgr.S3)
	if err != nil {
		return nil, err
	}
	return fetcher.Init(fetcher.FetcherInitConfig{Client: s3Client, Logger: sos})
}

func runPreflight(ctx context.Context, clientMgr awsclientmgr.AWSClientMgr, checkType shared.CheckType, sos logger.Logger) (preflight.Identity, error) {
	stsClient, err := sdkClient[preflight.STSAPI](ctx, clientMgr, awsclientmgr.STS)
	if err != nil {
		return preflight.Identity{}, err
	}
	var aaClient preflight.AccessAnalyzerAPI
	if checkType.UsesNonBlockingFlag() {
		aaClient, err = sdkClient[preflight.AccessAnalyzerAPI](ctx, clientMgr, awsclientmgr.AA)
		if err != nil {
			return preflight.Identity{}, err
		}
	}
	return preflight.Run(ctx, checkType, stsClient, aaClient, sos)
}

// sdkClient fetches a client from the manager and narrows it to the API the
// caller uses.
func sdkClient[T any](ctx context.Context, clientMgr awsclientmgr.AWSClientMgr, name awsclientmgr.AWSServiceName) (T, error) {
	var zero T
	client, err := clientMgr.GetSDKClient(ctx, name)
	if err != nil {
		return zero, err
	}
	api, ok := client.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected [%s] client type %T", name, client)
	}
	return api, nil
}
