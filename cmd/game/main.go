package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/hearts/internal/audio"
	"github.com/tomz197/hearts/internal/config"
	"github.com/tomz197/hearts/internal/loop"
	"github.com/tomz197/hearts/internal/loop/client"
	gameconfig "github.com/tomz197/hearts/internal/loop/config"
	"github.com/tomz197/hearts/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	renderer := flag.String("renderer", config.GetEnv("HEARTS_RENDERER", "tcell"), "terminal backend: tcell or ansi")
	tuningPath := flag.String("config", config.GetEnv("HEARTS_CONFIG", ""), "TOML file overriding gameplay tuning")
	seed := flag.Int64("seed", config.GetEnvInt64("HEARTS_SEED", 0), "random seed, 0 picks one from the clock")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	logOut, closeLog, err := config.OpenLogFile(config.GetEnv("HEARTS_LOG_FILE", ""))
	if err != nil {
		return err
	}
	defer closeLog()
	logger := config.NewLogger(logOut, config.GetEnv("HEARTS_LOG_LEVEL", "info"))

	tuning := gameconfig.Defaults()
	if *tuningPath != "" {
		if tuning, err = gameconfig.Load(*tuningPath); err != nil {
			return err
		}
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	logger.Info("starting", "renderer", *renderer, "seed", *seed, "duration", tuning.Duration)

	var effects loop.Effects
	if !*mute {
		player := audio.NewPlayer(logger)
		if err := player.Init(); err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			defer player.Close()
			effects = player
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := client.ClientOptions{
		Tuning:  tuning,
		Rand:    rand.New(rand.NewSource(*seed)),
		Effects: effects,
		Logger:  logger,
	}

	switch *renderer {
	case "tcell":
		return runTcell(ctx, opts)
	case "ansi":
		return runANSI(ctx, opts, logger)
	default:
		return fmt.Errorf("unknown renderer %q", *renderer)
	}
}

func runTcell(ctx context.Context, opts client.ClientOptions) error {
	screen, err := tui.New()
	if err != nil {
		return err
	}
	defer screen.Close()
	return client.NewClient(screen, opts).Run(ctx)
}

func runANSI(ctx context.Context, opts client.ClientOptions, logger *log.Logger) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		if err := term.Restore(fd, oldState); err != nil {
			logger.Warn("restore terminal", "err", err)
		}
	}()

	screen := client.NewANSITerminal(os.Stdin, os.Stdout, nil)
	screen.Open()
	defer screen.Close()
	return client.NewClient(screen, opts).Run(ctx)
}
