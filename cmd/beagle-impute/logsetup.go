package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/browning-lab/beagle-impute/utils"
)

// programMessage is the banner written to the top of a redirected log
// file so a saved log can always be traced back to the binary version
// and source that produced it.
var programMessage = fmt.Sprintf(
	"%s version %s - see %s for more information.\n",
	utils.ProgramName, utils.ProgramVersion, utils.ProgramURL,
)

// redirectStderrToLog duplicates the process's stderr file descriptor into
// a timestamped log file under dir, so panics and other low-level runtime
// output that bypass the standard logger still land in the log.
func redirectStderrToLog(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("beagle-impute-%s.log", time.Now().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	fmt.Fprintln(f, programMessage)

	orgStderr, err := unix.Dup(2)
	if err != nil {
		return fmt.Errorf("duplicating stderr: %w", err)
	}
	stderr := os.NewFile(uintptr(orgStderr), "/dev/stderr")
	if err := unix.Dup2(int(f.Fd()), 2); err != nil {
		return fmt.Errorf("redirecting stderr: %w", err)
	}

	log.SetOutput(io.MultiWriter(f, stderr))
	log.Println("logging to", path)
	log.Println("command line:", os.Args)
	return nil
}
