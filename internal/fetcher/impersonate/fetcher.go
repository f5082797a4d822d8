// Package impersonate implements crawler.Fetcher by running a curl-impersonate
// binary whose TLS fingerprint matches the requested browser profile.
package impersonate

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/wine-searcher-crawler/internal/crawler"
	"github.com/JakeFAU/wine-searcher-crawler/internal/metrics"
)

const (
	backendName = "impersonate"

	// DefaultMaxOutputBytes bounds stdout; pages above it are rejected, never truncated.
	DefaultMaxOutputBytes = 10 << 20
	defaultMaxStderrBytes = 64 << 10
	defaultWaitDelay      = 250 * time.Millisecond

	// curl exits with 28 when --max-time elapses.
	curlExitTimedOut = 28
)

// Config controls how the impersonating client is located and run.
type Config struct {
	// BinaryDir is prepended to relative binary names; empty resolves via PATH.
	BinaryDir string
	// Binaries overrides DefaultBinaries per profile.
	Binaries map[crawler.BrowserProfile]string
	// MaxOutputBytes caps stdout. Values below DefaultMaxOutputBytes are raised to it.
	MaxOutputBytes int
	// WaitDelay bounds how long to wait for output pipes after the process is killed.
	WaitDelay time.Duration
}

// Fetcher runs one process per fetch and holds no per-request state.
type Fetcher struct {
	cfg    Config
	logger *zap.Logger
}

var _ crawler.Fetcher = (*Fetcher)(nil)

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.MaxOutputBytes < DefaultMaxOutputBytes {
		cfg.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if cfg.WaitDelay <= 0 {
		cfg.WaitDelay = defaultWaitDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{cfg: cfg, logger: logger}
}

// Command resolves the invocation Fetch would run, without running it.
func (f *Fetcher) Command(url string, opts crawler.FetchOptions) (Command, error) {
	return buildCommand(f.cfg, url, opts.WithDefaults())
}

// Fetch runs the client and returns its stdout. It never retries.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts crawler.FetchOptions) (string, error) {
	opts = opts.WithDefaults()
	cmd, err := buildCommand(f.cfg, url, opts)
	if err != nil {
		return "", &crawler.NetworkError{URL: url, Err: err}
	}
	f.logger.Debug("running fetch command", zap.String("url", url), zap.String("command", cmd.String()))

	start := time.Now()
	body, err := f.run(ctx, cmd, url, opts)
	metrics.ObserveFetch(backendName, outcomeLabel(err), time.Since(start), len(body))
	if err != nil {
		return "", err
	}
	return body, nil
}

func (f *Fetcher) run(ctx context.Context, cmd Command, url string, opts crawler.FetchOptions) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout())
	defer cancel()

	proc := exec.CommandContext(runCtx, cmd.Binary, cmd.Args...)
	proc.WaitDelay = f.cfg.WaitDelay
	stdout := &limitedBuffer{limit: f.cfg.MaxOutputBytes}
	stderr := &limitedBuffer{limit: defaultMaxStderrBytes}
	proc.Stdout = stdout
	proc.Stderr = stderr

	runErr := proc.Run()

	if diag := strings.TrimSpace(stderr.String()); diag != "" {
		f.logger.Warn("fetch command wrote to stderr", zap.String("url", url), zap.String("stderr", diag))
	}
	if runErr != nil {
		return "", classify(runCtx, url, opts.TimeoutMs, runErr, stderr.String())
	}
	if stdout.overflowed {
		return "", &crawler.NetworkError{
			URL: url,
			Err: fmt.Errorf("response exceeds %d bytes", f.cfg.MaxOutputBytes),
		}
	}
	body := stdout.String()
	if strings.TrimSpace(body) == "" {
		return "", &crawler.NetworkError{URL: url, Err: crawler.ErrEmptyResponse}
	}
	return body, nil
}

func classify(runCtx context.Context, url string, timeoutMs int, runErr error, stderr string) error {
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return &crawler.TimeoutError{URL: url, TimeoutMs: timeoutMs}
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) && exitErr.ExitCode() == curlExitTimedOut {
		return &crawler.TimeoutError{URL: url, TimeoutMs: timeoutMs}
	}
	if mentionsTimeout(runErr.Error()) {
		return &crawler.TimeoutError{URL: url, TimeoutMs: timeoutMs}
	}
	msg := runErr.Error()
	if diag := strings.TrimSpace(stderr); diag != "" {
		msg = fmt.Sprintf("%s: %s", msg, diag)
	}
	return &crawler.NetworkError{URL: url, Err: errors.New(msg)}
}

func mentionsTimeout(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "timed out") || strings.Contains(s, "timeout")
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case crawler.ErrorKind(err) == crawler.KindTimeout:
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeNetworkError
	}
}

// limitedBuffer keeps at most limit bytes and silently drains the rest so the
// child process never blocks on a full pipe.
type limitedBuffer struct {
	buf        strings.Builder
	limit      int
	overflowed bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.overflowed = b.overflowed || len(p) > 0
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.overflowed = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
