// Package golden implements unified-diff comparison of two versions of
// generated C source text.
package golden

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Diff returns a unified diff between want and got, or nil if they're equal.
func Diff(want, got []byte) ([]byte, error) {
	if bytes.Equal(want, got) {
		return nil, nil
	}
	xp, err := pipe(want)
	if err != nil {
		return nil, err
	}
	defer xp.Close()
	yp, err := pipe(got)
	if err != nil {
		return nil, err
	}
	defer yp.Close()

	var stderr bytes.Buffer
	cmd := exec.Command("diff", "-u", "/dev/fd/3", "/dev/fd/4")
	cmd.ExtraFiles = []*os.File{xp, yp}
	cmd.Stderr = &stderr
	stdout, err := cmd.Output()
	if ee, ok := err.(*exec.ExitError); ok {
		if exitErrorMeansDiff(ee) {
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}
	if stderr.Len() != 0 {
		return nil, fmt.Errorf("diff: %s", &stderr)
	}
	nl := []byte("\n")
	lines := bytes.Split(stdout, nl)
	if len(lines) < 2 {
		return stdout, nil
	}
	if strings.HasPrefix(string(lines[0]), "--- /dev/fd/3\t") &&
		strings.HasPrefix(string(lines[1]), "+++ /dev/fd/4\t") {
		stdout = bytes.Join(lines[2:], nl)
	}
	return stdout, nil
}

func pipe(data []byte) (*os.File, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("os.Pipe: %v", err)
	}
	go func() {
		pw.Write(data)
		pw.Close()
	}()
	return pr, nil
}
