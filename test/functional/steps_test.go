package functional

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// aCannySourceTree is a no-op because the Before hook already lays the
// tree down. This step exists so feature files read naturally.
func aCannySourceTree(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

// iRun executes a command string, replacing "cannyup" with the test
// binary path and "$HOME" with the scenario's home directory.
func iRun(ctx context.Context, command string) (context.Context, error) {
	state := getState(ctx)
	if state == nil {
		return ctx, fmt.Errorf("no test state; is the Before hook running?")
	}

	args := strings.Fields(command)
	if len(args) > 0 && args[0] == "cannyup" {
		args[0] = state.binPath
	}
	for i, a := range args {
		args[i] = strings.ReplaceAll(a, "$HOME", state.homeDir)
	}

	cmd := exec.Command(args[0], args[1:]...)
	// Run from the seeded source tree so the default --source-dir works
	cmd.Dir = state.sourceDir
	cmd.Env = scenarioEnv(state)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	state.stdout = stdout.String()
	state.stderr = stderr.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			state.exitCode = exitErr.ExitCode()
		} else {
			return ctx, fmt.Errorf("command execution failed: %w", err)
		}
	} else {
		state.exitCode = 0
	}

	return ctx, nil
}

func theExitCodeIs(ctx context.Context, expected int) error {
	state := getState(ctx)
	if state.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s",
			expected, state.exitCode, state.stdout, state.stderr)
	}
	return nil
}

func theExitCodeIsNot(ctx context.Context, notExpected int) error {
	state := getState(ctx)
	if state.exitCode == notExpected {
		return fmt.Errorf("expected exit code to not be %d\nstdout: %s\nstderr: %s",
			notExpected, state.stdout, state.stderr)
	}
	return nil
}

func theOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout not to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theErrorOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theErrorOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr not to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theFileExists(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.homeDir, path)
	if _, err := os.Lstat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("expected file %q to exist", fullPath)
	}
	return nil
}

func theFileDoesNotExist(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.homeDir, path)
	if _, err := os.Lstat(fullPath); err == nil {
		return fmt.Errorf("expected file %q not to exist", fullPath)
	}
	return nil
}

// theFileIsExecutable checks the mode bits instead of running the file.
// The managed binary is never executed, not even by its own tests.
func theFileIsExecutable(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.homeDir, path)
	info, err := os.Stat(fullPath)
	if err != nil {
		return fmt.Errorf("expected executable file %q: %v", fullPath, err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("expected %q to be executable, mode is %v", fullPath, info.Mode())
	}
	return nil
}

func theSourceTreeContains(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.sourceDir, path)
	if _, err := os.Stat(fullPath); err != nil {
		return fmt.Errorf("expected %q in the source tree: %v", fullPath, err)
	}
	return nil
}
