//go:build windows

package process

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil { return }
	_ = cmd.Process.Kill()
}
