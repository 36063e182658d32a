// Package launcher implements the selenoid-ui lifecycle around a test run.
//
// A Service is driven by two hooks. Prepare removes any stale UI container,
// optionally pulls the UI image, waits for the selenoid grid container to
// show up and then starts the UI container linked to it. Complete removes
// the UI container again.
//
// Every step is best-effort. Failures are logged and returned as values,
// and neither hook ever blocks a test run on container infrastructure.
package launcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shinji-kodama/selenoid-ui-service/internal/docker"
	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
)

// LoggerName is the name attached to every log line of the service.
const LoggerName = "wdio-selenoid-standalone-ui-service"

const (
	// readinessAttempts bounds the grid readiness poll.
	readinessAttempts = 10

	// readinessInterval is the fixed delay after each unsuccessful poll.
	readinessInterval = time.Second
)

// SleepFunc pauses for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option customizes a Service.
type Option func(*Service)

// WithSleep replaces the sleep used between readiness polls.
func WithSleep(fn SleepFunc) Option {
	return func(s *Service) {
		s.sleep = fn
	}
}

// WithHostPortCheck installs a probe run right before the UI container is
// started. A non-nil result is logged as a warning; the start still goes
// ahead.
func WithHostPortCheck(fn func(port int) error) Option {
	return func(s *Service) {
		s.portCheck = fn
	}
}

// Service starts and stops the selenoid-ui container. It is not safe for
// concurrent use; the hooks are meant to run one after the other.
type Service struct {
	opts   model.Options
	runner docker.Runner
	log    *zap.Logger
	sleep  SleepFunc

	portCheck func(port int) error
}

// New creates a Service. A nil logger disables logging.
func New(opts model.Options, runner docker.Runner, logger *zap.Logger, options ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		opts:   opts,
		runner: runner,
		log:    logger.Named(LoggerName),
		sleep:  sleepContext,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Options returns the options the service was created with.
func (s *Service) Options() model.Options {
	return s.opts
}

// StopUI force-removes the UI container.
//
// Removing a container that does not exist fails at the CLI level; the
// failure is returned as a value and never escalated, so callers can
// safely ignore it.
func (s *Service) StopUI(ctx context.Context) (string, error) {
	s.log.Info("Stopping any running selenoid-ui containers")

	out, err := s.runner.Run(ctx, docker.RemoveArgs(s.opts.SelenoidUIContainerName)...)
	if err != nil {
		s.log.Debug("No selenoid-ui container removed",
			zap.String("container", s.opts.SelenoidUIContainerName),
			zap.Error(err))
	}
	return out, err
}

// StartUI runs the UI container detached, publishing it on the configured
// host port and linking it to the grid container. On success the output is
// the new container ID printed by docker run.
func (s *Service) StartUI(ctx context.Context) (string, error) {
	s.log.Info("Starting Selenoid-Ui Container",
		zap.String("image", s.opts.ImageRef()),
		zap.String("container", s.opts.SelenoidUIContainerName))

	out, err := s.runner.Run(ctx, docker.RunArgs(s.opts)...)
	if err != nil {
		s.log.Error("Failed to start selenoid-ui container", zap.Error(err))
	}
	return out, err
}

// ImageExists reports whether ref is present locally.
//
// `docker image ls` always prints a header row, so at least two lines
// mean at least one matching image. If the check itself fails the image
// is assumed present, which at worst skips a pull that might also fail.
func (s *Service) ImageExists(ctx context.Context, ref string) bool {
	s.log.Debug("Checking image exists", zap.String("image", ref))

	out, err := s.runner.Run(ctx, docker.ImageListArgs(ref)...)
	if err != nil {
		s.log.Error("Failed to list images", zap.String("image", ref), zap.Error(err))
		return true
	}
	return docker.CountLines(out) >= 2
}

// PullIfMissing pulls the UI image unless it is already present. A failed
// pull is logged and returned; Prepare carries on regardless since docker
// run will attempt the pull itself.
func (s *Service) PullIfMissing(ctx context.Context) error {
	ref := s.opts.ImageRef()

	if s.ImageExists(ctx, ref) {
		s.log.Info("Skipping pull. Image already exists", zap.String("image", ref))
		return nil
	}

	s.log.Info("Pulling selenoid-ui image", zap.String("image", ref))
	if _, err := s.runner.Run(ctx, docker.PullArgs(ref)...); err != nil {
		s.log.Error("Failed to pull selenoid-ui image", zap.String("image", ref), zap.Error(err))
		return err
	}
	return nil
}

// WaitForGrid polls `docker ps -f name=<grid>` until the grid container is
// listed, at most readinessAttempts times, sleeping readinessInterval after
// every miss. It returns true as soon as the container shows up and false
// once the attempts are used up or ctx is done.
//
// Polling errors count as "not ready yet".
func (s *Service) WaitForGrid(ctx context.Context) bool {
	name := s.opts.SelenoidContainerName
	s.log.Info("Waiting for Selenoid to be Running", zap.String("container", name))

	for attempt := 1; attempt <= readinessAttempts; attempt++ {
		out, err := s.runner.Run(ctx, docker.PsByNameArgs(name)...)
		if err != nil {
			s.log.Debug("Error when checking for Selenoid container",
				zap.Int("attempt", attempt), zap.Error(err))
		} else if docker.CountLines(out) >= 2 {
			return true
		}

		s.log.Debug("Selenoid container not started, waiting",
			zap.Int("attempt", attempt), zap.Duration("delay", readinessInterval))
		if err := s.sleep(ctx, readinessInterval); err != nil {
			return false
		}
	}

	return false
}

// Prepare runs before the test session: remove the stale UI container,
// pull the image unless SkipAutoPullImage is set, wait for the grid and
// start the UI. Only the start result is returned; earlier failures are
// logged and the sequence continues.
func (s *Service) Prepare(ctx context.Context) (string, error) {
	_, _ = s.StopUI(ctx)

	if !s.opts.SkipAutoPullImage {
		_ = s.PullIfMissing(ctx)
	}

	if !s.WaitForGrid(ctx) {
		s.log.Warn("Selenoid container not found, starting selenoid-ui anyway",
			zap.String("container", s.opts.SelenoidContainerName),
			zap.Int("attempts", readinessAttempts))
	}

	if s.portCheck != nil {
		if err := s.portCheck(s.opts.Port); err != nil {
			s.log.Warn("selenoid-ui host port looks busy", zap.Int("port", s.opts.Port), zap.Error(err))
		}
	}

	return s.StartUI(ctx)
}

// Complete runs after the test session and removes the UI container.
func (s *Service) Complete(ctx context.Context) (string, error) {
	return s.StopUI(ctx)
}

// sleepContext is the default SleepFunc.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
