// Command huffc is the compiler's CLI entrypoint: a cobra root command
// with Use/Short/Long, subcommands each owning their own flags, and
// fatih/color-based success/error printers.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/huffgo/huffc/internal/artifact"
	"github.com/huffgo/huffc/internal/cache"
	"github.com/huffgo/huffc/internal/codegen"
	"github.com/huffgo/huffc/internal/config"
	"github.com/huffgo/huffc/internal/devserver"
	"github.com/huffgo/huffc/internal/diagnostics"
	"github.com/huffgo/huffc/internal/fingerprint"
	"github.com/huffgo/huffc/internal/huffErrors"
	"github.com/huffgo/huffc/internal/logging"
	"github.com/huffgo/huffc/internal/metrics"
	"github.com/huffgo/huffc/internal/parser"
	"github.com/huffgo/huffc/internal/session"
	"github.com/huffgo/huffc/internal/storage"
	"github.com/huffgo/huffc/internal/tracing"
	"github.com/huffgo/huffc/internal/watch"
)

var version = "0.1.0"

var (
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgCyan)
)

func printInfo(msg string)    { infoColor.Println(msg) }
func printSuccess(msg string) { successColor.Println(msg) }

func main() {
	rootCmd := &cobra.Command{
		Use:     "huffc",
		Short:   "Macro-assembler compiler for stack-VM bytecode",
		Long:    "huffc expands macro-assembler source into linked stack-VM bytecode: opcode resolution, argument bubbling, macro expansion, and jump linking.",
		Version: version,
	}

	var configPath string
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a huffc.yaml config file")

	compileCmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a source file to bytecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			_, err = compileFile(cmd.Context(), cfg, args[0])
			return err
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Recompile on every save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cfg, args[0])
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Watch and stream compile diagnostics to a websocket dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, args[0])
		},
	}

	rootCmd.AddCommand(compileCmd, watchCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

// compileFile runs the full pipeline: parse, derive storage pointers,
// check the artifact cache, expand, link, and build the final artifact.
func compileFile(ctx context.Context, cfg *config.Config, path string) (*artifact.Artifact, error) {
	sessionID := session.New()

	log := logging.New(logging.Config{MinLevel: logging.WARN, SessionID: sessionID})
	defer log.Close()

	if cfg.EnableTracing {
		tcfg := tracing.DefaultConfig()
		tcfg.UseOTLP = cfg.TracingEndpoint != ""
		tcfg.Endpoint = cfg.TracingEndpoint
		tp, err := tracing.Init(tcfg)
		if err != nil {
			return nil, err
		}
		defer tp.Shutdown(ctx)
	}

	var m *metrics.Metrics
	if cfg.EnableMetrics {
		m = metrics.New(metrics.DefaultConfig())
	}

	artifactCache, err := cache.New(cfg)
	if err != nil {
		return nil, err
	}
	defer artifactCache.Close()

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("huffc: read %s: %w", path, err)
	}

	ctx, parseSpan := tracing.StartPhase(ctx, "parse", "", sessionID.String())
	contract, err := parser.Parse(path, string(src))
	parseSpan.End()
	if err != nil {
		return nil, err
	}

	storage.DeriveStoragePointers(contract)

	key := fingerprint.Of(contract)
	if cached, ok, err := artifactCache.Get(ctx, key); err == nil && ok {
		if m != nil {
			m.ObserveCacheResult("hit", sessionID.String())
		}
		printInfo(fmt.Sprintf("cache hit for %s", path))
		return &artifact.Artifact{Bytecode: cached}, nil
	} else if m != nil {
		m.ObserveCacheResult("miss", sessionID.String())
	}

	start := time.Now()
	_, expandSpan := tracing.StartPhase(ctx, "expand", contract.Entry, sessionID.String())
	state, err := codegen.Compile(contract, log)
	expandSpan.End()
	if err != nil {
		printCompileError(err)
		return nil, err
	}
	if m != nil {
		m.ObserveFragments(len(state.Fragments))
	}

	_, linkSpan := tracing.StartPhase(ctx, "link", contract.Entry, sessionID.String())
	bytecode, err := state.Link()
	linkSpan.End()
	if err != nil {
		printCompileError(err)
		return nil, err
	}
	if m != nil {
		for range state.JumpTable {
			m.ObserveJumpLinked()
		}
		m.ObserveDuration("compile", time.Since(start), sessionID.String())
	}

	_ = artifactCache.Set(ctx, key, bytecode, cfg.CacheTTL)

	art := artifact.Build(bytecode, state.JumpTable)
	printSuccess(fmt.Sprintf("compiled %s: %d bytes (%s)", path, len(art.Bytecode), time.Since(start)))
	return art, nil
}

func printCompileError(err error) {
	if ce, ok := err.(*huffErrors.CodegenError); ok {
		diagnostics.FromCodegenError(ce).Print()
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func runWatch(ctx context.Context, cfg *config.Config, path string) error {
	w, err := watch.New(path, cfg.WatchDebounce, func() {
		compileFile(ctx, cfg, path)
	})
	if err != nil {
		return err
	}
	defer w.Close()
	printInfo(fmt.Sprintf("watching %s", path))
	return w.Run()
}

func runServe(ctx context.Context, cfg *config.Config, path string) error {
	hub := devserver.NewHub()
	stop := make(chan struct{})
	go hub.Run(stop)
	defer close(stop)

	w, err := watch.New(path, cfg.WatchDebounce, func() {
		art, err := compileFile(ctx, cfg, path)
		if err != nil {
			hub.Broadcast(devserver.Event{OK: false, Message: err.Error()})
			return
		}
		hub.Broadcast(devserver.Event{OK: true, Message: "compiled", Bytecode: fmt.Sprintf("%x", art.Bytecode)})
	})
	if err != nil {
		return err
	}
	defer w.Close()

	mux := newDevMux(hub)
	go w.Run()
	printInfo(fmt.Sprintf("dev server listening on %s", cfg.DevServerAddr))
	return serveMux(cfg.DevServerAddr, mux)
}
