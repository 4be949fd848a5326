package collect

import (
	"context"
	"path"

	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/pgcollect/internal/container"
	"github.com/alexanderjulianmartinez/pgcollect/internal/report"
	"github.com/alexanderjulianmartinez/pgcollect/internal/source/postgres"
	"github.com/alexanderjulianmartinez/pgcollect/pkg/types"
)

// OutputName is the artifact holding the configuration dump.
const OutputName = "postgresql.conf"

// Source is the database side of a run.
type Source interface {
	FetchConfig(ctx context.Context) ([]types.SettingRow, error)
	FetchLoggingInfo(ctx context.Context) (types.LoggingInfo, error)
	FetchLicense(ctx context.Context) (types.LicenseInfo, error)
	Close() error
}

// Connector opens a Source for a connection descriptor.
type Connector func(ctx context.Context, dsn string, logger *zap.Logger) (Source, error)

// PathResolver maps a path inside a container to its host location.
type PathResolver interface {
	ResolveHostPath(ctx context.Context, containerID, internalPath string) (string, error)
}

type Options struct {
	DSN         string
	ContainerID string
}

type Issue struct {
	Step    string
	Message string
	Err     error
}

// Result describes how far a run got and what it found.
type Result struct {
	State     State
	Config    []types.SettingRow
	Logging   types.LoggingInfo
	License   types.LicenseInfo
	CopySpecs []string
	Issues    []Issue
}

func (r *Result) Completed() bool { return r.State == StateDone }

type Collector struct {
	opts     Options
	connect  Connector
	resolver PathResolver
	logger   *zap.Logger
}

// New returns a Collector that talks to PostgreSQL through lib/pq and
// inspects containers with resolver.
func New(opts Options, resolver PathResolver, logger *zap.Logger) *Collector {
	return NewWithConnector(opts, ConnectPostgres, resolver, logger)
}

func NewWithConnector(opts Options, connect Connector, resolver PathResolver, logger *zap.Logger) *Collector {
	if opts.DSN == "" {
		opts.DSN = postgres.DefaultDSN
	}
	if resolver == nil {
		resolver = container.NewResolver(container.DefaultRuntime, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{opts: opts, connect: connect, resolver: resolver, logger: logger}
}

// ConnectPostgres is the default Connector.
func ConnectPostgres(ctx context.Context, dsn string, logger *zap.Logger) (Source, error) {
	insp, err := postgres.NewInspector(ctx, dsn, logger)
	if err != nil {
		return nil, err
	}
	return insp, nil
}

// Run takes one snapshot and writes it to host. Failures never escape: each
// one becomes a note in the report and an Issue in the result.
func (c *Collector) Run(ctx context.Context, host report.Host) *Result {
	res := &Result{State: StateInit}

	src, err := c.connect(ctx, c.opts.DSN, c.logger)
	if err != nil {
		c.fail(host, res, StepConnect, err)
		return res
	}
	defer func() {
		if err := src.Close(); err != nil {
			c.logger.Warn("closing connection failed", zap.Error(err))
		}
	}()
	c.advance(res, StateConnected)

	config, err := src.FetchConfig(ctx)
	if err != nil {
		c.fail(host, res, StepConfig, err)
		return res
	}
	res.Config = config
	c.write(host, postgres.RenderConfig(config))
	c.advance(res, StateConfigCollected)

	logging, err := src.FetchLoggingInfo(ctx)
	if err != nil {
		c.fail(host, res, StepLoggingPolicy, err)
	} else {
		res.Logging = logging
		c.advance(res, StateLoggingPolicyResolved)
		c.stageLogs(ctx, host, res)
	}

	license, err := src.FetchLicense(ctx)
	if err != nil {
		c.fail(host, res, StepLicense, err)
	} else {
		res.License = license
		c.write(host, "Swarm64 license info: "+license.String())
		c.advance(res, StateLicenseCollected)
	}

	c.advance(res, StateDone)
	return res
}

func (c *Collector) stageLogs(ctx context.Context, host report.Host, res *Result) {
	if !res.Logging.CollectLogs {
		c.logger.Info("server logs are not written to collectible files, skipping")
		return
	}
	if c.opts.ContainerID == "" {
		c.logger.Info("no container id configured, skipping log collection")
		return
	}

	hostDataDir, err := c.resolver.ResolveHostPath(ctx, c.opts.ContainerID, res.Logging.DataDir)
	if err != nil {
		c.fail(host, res, StepContainerPath, err)
		return
	}
	c.advance(res, StateContainerPathResolved)

	glob := path.Join(hostDataDir, res.Logging.LogDir, "*")
	if err := host.AddCopySpec(glob); err != nil {
		c.fail(host, res, StepCopySpec, err)
		return
	}
	res.CopySpecs = append(res.CopySpecs, glob)
	c.logger.Info("staged server logs", zap.String("glob", glob))
}

func (c *Collector) advance(res *Result, next State) {
	res.State = next
	c.logger.Debug("collection state", zap.Stringer("state", next))
}

func (c *Collector) fail(host report.Host, res *Result, step string, err error) {
	msg := MessageForFailure(step, err)
	res.Issues = append(res.Issues, Issue{Step: step, Message: msg, Err: err})
	c.logger.Warn("collection step failed", zap.String("step", step), zap.Error(err))
	c.write(host, msg)
}

func (c *Collector) write(host report.Host, content string) {
	if err := host.AddStringAsFile(content, OutputName); err != nil {
		c.logger.Error("writing report artifact failed", zap.String("artifact", OutputName), zap.Error(err))
	}
}
