//go:build windows

package main

import (
	"os/exec"
	"syscall"
)

// setSysProcAttr detaches the spawned server from the CLI's console so
// it keeps running after the CLI exits.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
