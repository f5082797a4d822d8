package impersonate

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JakeFAU/wine-searcher-crawler/internal/crawler"
)

// shellEscapes lists the characters neutralized by EscapeShellArg. Backslash
// must come first so later replacements are not escaped twice.
var shellEscapes = []string{`\`, `"`, `$`, "`", `;`, `&`, `|`, `<`, `>`}

var shellEscaper = func() *strings.Replacer {
	pairs := make([]string, 0, len(shellEscapes)*2)
	for _, ch := range shellEscapes {
		pairs = append(pairs, ch, `\`+ch)
	}
	return strings.NewReplacer(pairs...)
}()

// EscapeShellArg prefixes every shell metacharacter in s with a backslash.
func EscapeShellArg(s string) string {
	// Replacer never rescans its own output, so this matches replacing
	// backslash first and then each remaining character in order.
	return shellEscaper.Replace(s)
}

// DefaultBinaries maps each browser profile to its curl-impersonate wrapper.
var DefaultBinaries = map[crawler.BrowserProfile]string{
	crawler.ProfileChrome116:  "curl_chrome116",
	crawler.ProfileChrome110:  "curl_chrome110",
	crawler.ProfileFirefox109: "curl_ff109",
}

// Command is a fully resolved invocation of the impersonating client.
// Args is passed to the process as an argument vector; no shell is involved.
type Command struct {
	Binary string
	Args   []string

	rendered string
}

// String renders the command as a shell line for logs and dry runs. Every
// external value is escaped and double-quoted, so running the line in a shell
// starts exactly one process.
func (c Command) String() string {
	return c.rendered
}

// MaxTimeSeconds converts a millisecond timeout to the whole seconds passed to --max-time.
func MaxTimeSeconds(timeoutMs int) int {
	return int(math.Ceil(float64(timeoutMs) / 1000))
}

func resolveBinary(cfg Config, profile crawler.BrowserProfile) (string, error) {
	name, ok := cfg.Binaries[profile]
	if !ok {
		name, ok = DefaultBinaries[profile]
	}
	if !ok || name == "" {
		return "", fmt.Errorf("no binary for browser profile %q", profile)
	}
	if cfg.BinaryDir != "" && !filepath.IsAbs(name) {
		name = filepath.Join(cfg.BinaryDir, name)
	}
	return name, nil
}

func buildCommand(cfg Config, url string, opts crawler.FetchOptions) (Command, error) {
	binary, err := resolveBinary(cfg, opts.BrowserProfile)
	if err != nil {
		return Command{}, err
	}
	maxTime := strconv.Itoa(MaxTimeSeconds(opts.TimeoutMs))

	// --url keeps a URL starting with "-" from being read as a curl option.
	args := []string{"-s", "-L", "--url", url, "--max-time", maxTime}
	var line strings.Builder
	fmt.Fprintf(&line, `%s -s -L --url "%s" --max-time %s`, binary, EscapeShellArg(url), maxTime)

	for _, key := range opts.HeaderKeys() {
		value := opts.Headers[key]
		args = append(args, "-H", key+": "+value)
		fmt.Fprintf(&line, ` -H "%s: %s"`, EscapeShellArg(key), EscapeShellArg(value))
	}
	if opts.UserAgent != "" {
		args = append(args, "-A", opts.UserAgent)
		fmt.Fprintf(&line, ` -A "%s"`, EscapeShellArg(opts.UserAgent))
	}
	return Command{Binary: binary, Args: args, rendered: line.String()}, nil
}
