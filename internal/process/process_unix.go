//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// kill the whole group, negative pid addresses the pgid
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil { return }
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
