// Package player manages the starting and stopping of the mpv video player
// on a display device, and the rotation of its physical output.
package player

import (
	"fmt"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/oyarzun/hoteltv/wlrrandr"
)

// Player is the on-device playback surface. A source change swaps the mpv
// process; clearing kills it and leaves the panel black until the next
// assignment.
type Player struct {
	binary   string
	baseArgs []string

	outputName     string
	manageRotation bool

	// only one goroutine may swap the player process at a time
	mu  sync.Mutex
	cmd *exec.Cmd
}

func New(binary string, args []string, outputName string, manageRotation bool) *Player {
	return &Player{
		binary:         binary,
		baseArgs:       args,
		outputName:     outputName,
		manageRotation: manageRotation,
	}
}

func (p *Player) ApplySource(ref string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	args := append(append([]string{}, p.baseArgs...), ref)
	cmd := exec.Command(p.binary, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", p.binary, err)
	}
	p.cmd = cmd

	// Reap the process so a crashed player doesn't linger as a zombie.
	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Debug("player process exited", "error", err)
		}
	}()

	slog.Info("started video player", "source", ref)
	return nil
}

func (p *Player) ClearSource() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return nil
}

func (p *Player) ApplyRotation(degrees int) error {
	if !p.manageRotation {
		return nil
	}
	return wlrrandr.SetTransform(p.outputName, degrees)
}

func (p *Player) stopLocked() {
	if p.cmd == nil || p.cmd.Process == nil {
		return
	}
	if err := p.cmd.Process.Kill(); err != nil {
		slog.Warn("unable to kill player process", "error", err)
	}
	p.cmd = nil
}
