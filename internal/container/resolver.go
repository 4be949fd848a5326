// Package container maps paths inside a running container to the host paths
// backing them, using the container runtime's inspect command.
package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultRuntime is the binary used when none is configured.
	DefaultRuntime = "docker"

	// mountsFormat prints "<destination> <source>" per mount, followed by a
	// blank line.
	mountsFormat = "{{range .Mounts}}{{.Destination}} {{.Source}}{{println}}{{println}}{{end}}"
)

// ErrTooFewMounts is matched by PathError when the inspect output did not
// contain enough mounts for the requested path.
var ErrTooFewMounts = errors.New("fewer than two matching mounts")

// PathError is returned when a container path cannot be mapped to the host.
type PathError struct {
	ContainerID string
	Path        string
	Err         error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("resolve %s in container %s: %v", e.Path, e.ContainerID, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

type Mount struct {
	Destination string
	Source      string
}

// CommandRunner runs an external command to completion and returns its
// standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

type Resolver struct {
	Runtime string
	Runner  CommandRunner
	Logger  *zap.Logger
}

// NewResolver returns a Resolver that shells out to runtime ("docker" or
// "podman").
func NewResolver(runtime string, logger *zap.Logger) *Resolver {
	if runtime == "" {
		runtime = DefaultRuntime
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Runtime: runtime, Runner: execRunner{}, Logger: logger}
}

// ResolveHostPath returns the host path backing internalPath in the given
// container. Of the mounts whose destination contains internalPath, the
// second one is used: database images usually declare a volume and a bind
// mount over the same directory, and the bind mount comes second.
func (r *Resolver) ResolveHostPath(ctx context.Context, containerID, internalPath string) (string, error) {
	out, err := r.Runner.Run(ctx, r.Runtime, "inspect", "--format", mountsFormat, containerID)
	if err != nil {
		return "", &PathError{ContainerID: containerID, Path: internalPath, Err: err}
	}

	var matches []Mount
	for _, m := range ParseMounts(string(out)) {
		if strings.Contains(m.Destination, internalPath) {
			matches = append(matches, m)
		}
	}
	r.Logger.Debug("inspected container mounts",
		zap.String("container", containerID),
		zap.String("path", internalPath),
		zap.Int("matches", len(matches)))

	if len(matches) < 2 {
		return "", &PathError{
			ContainerID: containerID,
			Path:        internalPath,
			Err:         fmt.Errorf("%w: got %d", ErrTooFewMounts, len(matches)),
		}
	}
	return matches[1].Source, nil
}

// ParseMounts reads "<destination> <source>" lines. Blank lines and lines
// with fewer than two fields are skipped.
func ParseMounts(output string) []Mount {
	var mounts []Mount
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		mounts = append(mounts, Mount{Destination: fields[0], Source: fields[1]})
	}
	return mounts
}
