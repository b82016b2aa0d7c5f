package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/arenainfra/podctl/adapter/keyfile"
	"github.com/arenainfra/podctl/config"
	"github.com/arenainfra/podctl/domain"
	"github.com/arenainfra/podctl/errs"
	"github.com/arenainfra/podctl/pkg/logger"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrNoExecutor is returned when key distribution runs without a RemoteExecutor.
var ErrNoExecutor = errors.New("no remote executor configured")

// KeyOptions controls a key distribution run. Zero values fall back to the
// keys section of the configuration.
type KeyOptions struct {
	Dir      string
	Parallel int
	RCFiles  []string
	Sources  []config.KeySourceConfig
}

func (svc *Service) resolveKeyOptions(opt KeyOptions) KeyOptions {
	if opt.Dir == "" {
		opt.Dir = svc.KeysConfig.Dir
	}
	if opt.Parallel <= 0 {
		opt.Parallel = svc.KeysConfig.MaxParallel
	}
	if opt.Parallel <= 0 {
		opt.Parallel = config.DefaultMaxParallel
	}
	if len(opt.RCFiles) == 0 {
		opt.RCFiles = svc.KeysConfig.RCFiles
	}
	if len(opt.Sources) == 0 {
		opt.Sources = svc.KeysConfig.Sources
	}
	return opt
}

// DistributeKeys appends an export line for every key of every source to the
// rc files of the key's host. Hosts are processed concurrently, up to
// opt.Parallel at a time. Failed commands are counted and do not stop the run;
// a missing ssh client cancels all pending work and is returned.
func (svc *Service) DistributeKeys(ctx context.Context, opt KeyOptions) (*domain.KeyReport, error) {
	if svc.Executor == nil {
		return nil, ErrNoExecutor
	}
	opt = svc.resolveKeyOptions(opt)
	clk := svc.clock()
	start := clk.Now()
	out := &syncWriter{w: svc.out()}

	sources, err := loadKeySources(ctx, opt)
	if err != nil {
		return nil, err
	}
	hosts := keyHosts(sources)
	report := &domain.KeyReport{Hosts: len(hosts)}
	if len(hosts) == 0 {
		fmt.Fprintln(out, "No hosts found in any key file. Nothing to do.")
		report.Duration = clk.Since(start)
		return report, nil
	}
	fmt.Fprintf(out, "Distributing keys to %d hosts with up to %d workers...\n", len(hosts), opt.Parallel)

	var attempted, succeeded, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opt.Parallel)
	for _, host := range hosts {
		g.Go(func() error {
			for _, src := range sources {
				key, ok := src.Keys[host]
				if !ok {
					continue
				}
				for _, rcFile := range opt.RCFiles {
					if err := gctx.Err(); err != nil {
						return err
					}
					action := fmt.Sprintf("add %s to %s", src.EnvVar, rcFile)
					attempted.Add(1)
					_, err := svc.Executor.Run(gctx, host, exportCommand(src.EnvVar, key, rcFile))
					if err != nil {
						if errs.IsFatal(err) {
							return err
						}
						failed.Add(1)
						svc.Metrics.observeKeyCommand(false)
						logger.Logger(ctx).Error().Err(err).Str("host", host).Msg(action)
						fmt.Fprintf(out, "  ERROR: %s on %s: %v\n", action, host, err)
						continue
					}
					succeeded.Add(1)
					svc.Metrics.observeKeyCommand(true)
					fmt.Fprintf(out, "  SUCCESS: %s on %s\n", action, host)
				}
			}
			return nil
		})
	}
	err = g.Wait()

	report.Attempted = int(attempted.Load())
	report.Succeeded = int(succeeded.Load())
	report.Failed = int(failed.Load())
	report.Duration = clk.Since(start)
	if err != nil {
		return report, err
	}
	return report, ctx.Err()
}

func loadKeySources(ctx context.Context, opt KeyOptions) ([]domain.KeySource, error) {
	sources := make([]domain.KeySource, 0, len(opt.Sources))
	for _, src := range opt.Sources {
		path := src.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(opt.Dir, path)
		}
		keys, err := keyfile.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, domain.KeySource{File: path, EnvVar: src.EnvVar, Keys: keys})
	}
	return sources, nil
}

// keyHosts returns the sorted union of hosts over all sources.
func keyHosts(sources []domain.KeySource) []string {
	seen := map[string]struct{}{}
	for _, src := range sources {
		for host := range src.Keys {
			seen[host] = struct{}{}
		}
	}
	hosts := make([]string, 0, len(seen))
	for host := range seen {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// exportCommand builds the remote command appending `export VAR="key"` to rcFile.
// rcFile is left unquoted so the remote shell expands ~.
func exportCommand(envVar, key, rcFile string) string {
	line := fmt.Sprintf(`export %s="%s"`, envVar, key)
	return "echo " + shellQuote(line) + " >> " + rcFile
}

// shellQuote quotes s for a POSIX shell unless it consists of safe characters only.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, isUnsafeShellRune) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func isUnsafeShellRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("@%+=:,./-_", r):
		return false
	}
	return true
}

// syncWriter serialises progress lines written by concurrent workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
