package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ResolveSecret resolves one credential value by name. Resolution order:
//  1. the file named by the <NAME>_FILE environment variable,
//  2. a mounted secret file <secretsDir>/<name lowercased>,
//  3. the plain <NAME> environment value.
// File contents are trimmed of surrounding whitespace so a trailing newline
// in a mounted secret does not leak into the credential.
func ResolveSecret(name, secretsDir string) (string, error) {
	if path := os.Getenv(name + "_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read secret file for %s: %w", name, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	mounted := filepath.Join(secretsDir, strings.ToLower(name))
	if data, err := os.ReadFile(mounted); err == nil {
		return strings.TrimSpace(string(data)), nil
	}

	if value := os.Getenv(name); value != "" {
		return value, nil
	}

	return "", fmt.Errorf("secret %s is not set", name)
}

// BuildArgs assembles the flags forwarded to the alerting executable.
func BuildArgs(dbURL, login, password string) []string {
	return []string{
		"--db-url", dbURL,
		"--login", login,
		"--password", password,
	}
}

// Launcher resolves credentials and hands control to the external alerting
// program. It adds nothing of its own: stdio passes through and the child's
// exit status is the launcher's.
type Launcher struct {
	Executable string
	SecretsDir string
	DBURL      string
	logger     *zap.Logger
}

// New creates a launcher.
func New(executable, secretsDir, dbURL string, logger *zap.Logger) *Launcher {
	return &Launcher{
		Executable: executable,
		SecretsDir: secretsDir,
		DBURL:      dbURL,
		logger:     logger,
	}
}

// Command resolves the two credentials and builds the child process,
// without starting it.
func (l *Launcher) Command(ctx context.Context) (*exec.Cmd, error) {
	login, err := ResolveSecret("MAIL_LOGIN", l.SecretsDir)
	if err != nil {
		return nil, err
	}
	password, err := ResolveSecret("MAIL_PASSWORD", l.SecretsDir)
	if err != nil {
		return nil, err
	}
	if l.DBURL == "" {
		return nil, fmt.Errorf("database connection string is not set")
	}

	cmd := exec.CommandContext(ctx, l.Executable, BuildArgs(l.DBURL, login, password)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// Run starts the alerting program and waits for it. Returns the child's
// exit code; a non-zero exit is not an error of the launcher itself.
func (l *Launcher) Run(ctx context.Context) (int, error) {
	cmd, err := l.Command(ctx)
	if err != nil {
		return -1, err
	}

	l.logger.Info("starting alerting program",
		zap.String("executable", l.Executable),
	)

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("failed to run %s: %w", l.Executable, err)
	}
	return 0, nil
}
