package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rheminthsimeon/melodistiq/apperrors"
)

// Result holds command execution output
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes external commands with context support
type Runner struct {
	PythonPath string
	ScriptsDir string
}

func NewRunner(pythonPath, scriptsDir string) *Runner {
	if pythonPath == "" {
		venvPython := filepath.Join(scriptsDir, ".venv", "bin", "python")
		if _, err := os.Stat(venvPython); err == nil {
			pythonPath = venvPython
		} else {
			pythonPath = "python3"
		}
	}
	return &Runner{
		PythonPath: pythonPath,
		ScriptsDir: scriptsDir,
	}
}

func (r *Runner) ScriptPath(script string) string {
	return filepath.Join(r.ScriptsDir, script)
}

// RunScript executes a Python script from ScriptsDir
func (r *Runner) RunScript(ctx context.Context, script string, args ...string) (*Result, error) {
	fullArgs := append([]string{r.ScriptPath(script)}, args...)
	return r.Run(ctx, r.PythonPath, fullArgs...)
}

// Run executes any command and captures its output. A non-zero exit is
// reported through both the error and Result.ExitCode.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	if err != nil {
		return result, fmt.Errorf("%s failed: %w", filepath.Base(name), err)
	}

	return result, nil
}

// CheckTool verifies an executable is on PATH
func (r *Runner) CheckTool(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrToolNotInstalled, name)
	}
	return nil
}

// CheckScript verifies both the interpreter and the script are present
func (r *Runner) CheckScript(script string) error {
	if err := r.CheckTool(r.PythonPath); err != nil {
		return err
	}
	if _, err := os.Stat(r.ScriptPath(script)); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrToolNotInstalled, r.ScriptPath(script))
	}
	return nil
}
