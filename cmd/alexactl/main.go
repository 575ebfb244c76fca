package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/larriantoniy/alexa_ctl/internal/adapters/alexa"
	"github.com/larriantoniy/alexa_ctl/internal/adapters/cookie"
	"github.com/larriantoniy/alexa_ctl/internal/adapters/devicecache"
	"github.com/larriantoniy/alexa_ctl/internal/config"
	"github.com/larriantoniy/alexa_ctl/internal/domain"
	"github.com/larriantoniy/alexa_ctl/internal/logger"
	"github.com/larriantoniy/alexa_ctl/internal/useCases"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("alexactl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	// всё после имени операции - её аргументы, даже если начинается с "-"
	fs.SetInterspersed(false)
	configPath := fs.String("config", "", "path to YAML config file (default $CONFIG_PATH)")
	output := fs.StringP("output", "o", formatJSON, "output format for structured results: json or yaml")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: alexactl [--config path] [--output json|yaml] <operation> [args...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return exitUsage
	}
	if *output != formatJSON && *output != formatYAML {
		fmt.Fprintf(stderr, "alexactl: unknown output format %q\n", *output)
		return exitUsage
	}
	operation, args := fs.Arg(0), fs.Args()[1:]

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "alexactl: %v\n", err)
		return exitError
	}

	log, closeLog, err := logger.Setup(stderr, cfg.Env, cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "alexactl: %v\n", err)
		return exitError
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	dispatcher, cleanup := wire(cfg, log)
	defer cleanup()

	res, err := dispatcher.Execute(ctx, operation, args)
	if err != nil {
		fmt.Fprintf(stderr, "alexactl: %v\n", err)
		if errors.Is(err, domain.ErrUnknownOperation) {
			fmt.Fprintf(stderr, "operations: %s\n", strings.Join(dispatcher.Operations(), ", "))
		}
		return exitError
	}

	if err := writeResult(stdout, res, *output); err != nil {
		fmt.Fprintf(stderr, "alexactl: %s: write result: %v\n", operation, err)
		return exitError
	}
	return exitOK
}

func wire(cfg *config.AppConfig, log *slog.Logger) (*useCases.Dispatcher, func()) {
	store := cookie.NewFileStore(cfg.Cookie.Path, cfg.Cookie.FallbackPath, log.With("component", "cookie"))
	headers := cookie.NewHeaderBuilder(store, log.With("component", "headers"))
	transport := alexa.NewClient(cfg, headers, log.With("component", "alexa"))
	endpoints := domain.NewEndpoints(cfg.Alexa.BaseURL)

	var opts []useCases.RegistryOption
	cleanup := func() {}
	if cfg.Cache.Enabled() {
		snapshot := devicecache.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB,
			devicecache.WithTTL(cfg.Cache.TTL),
			devicecache.WithPrefix(cfg.Cache.Prefix),
			devicecache.WithAccount(cfg.Cache.Account),
		)
		opts = append(opts, useCases.WithSnapshotCache(snapshot))
		cleanup = func() {
			if err := snapshot.Close(); err != nil {
				log.Warn("close redis", "error", err)
			}
		}
	}

	registry := useCases.NewRegistry(transport, endpoints.Devices, log.With("component", "registry"), opts...)
	builder := domain.NewCommandBuilder(cfg.Alexa.Locale)
	return useCases.NewDispatcher(registry, transport, builder, endpoints, log), cleanup
}
