package maintenance

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/signupguard/signupguard/internal/logging"
)

type Script string

const (
	ScriptUpgrade Script = "upgrade"
	ScriptRestart Script = "restart"
)

const (
	DefaultUpgradePath = "./upgrade"
	DefaultRestartPath = "./restart"
)

// Launcher starts a maintenance script. Only launch success is reported.
type Launcher interface {
	Launch(ctx context.Context, script Script) error
}

type Runner struct {
	paths map[Script]string
	log   *logging.Logger
}

func NewRunner(upgradePath, restartPath string) *Runner {
	if upgradePath == "" {
		upgradePath = DefaultUpgradePath
	}
	if restartPath == "" {
		restartPath = DefaultRestartPath
	}
	return &Runner{
		paths: map[Script]string{
			ScriptUpgrade: upgradePath,
			ScriptRestart: restartPath,
		},
		log: logging.New("maintenance"),
	}
}

// Launch starts the script without arguments and returns once it is running.
// The process is not tied to ctx: a restart script usually outlives us.
func (r *Runner) Launch(ctx context.Context, script Script) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, ok := r.paths[script]
	if !ok {
		return fmt.Errorf("unknown script %q", script)
	}

	cmd := exec.Command(path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", script, err)
	}
	r.log.Info("launched %s (%s) pid=%d", script, path, cmd.Process.Pid)

	go func() {
		// Exit status is not interpreted, only reaped.
		err := cmd.Wait()
		r.log.Debug("%s exited: %v", script, err)
	}()
	return nil
}
