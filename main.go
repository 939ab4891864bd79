package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/lguibr/retrotennis/audio"
	"github.com/lguibr/retrotennis/bollywood"
	"github.com/lguibr/retrotennis/game"
	"github.com/lguibr/retrotennis/render"
	"github.com/lguibr/retrotennis/server"
	"github.com/lguibr/retrotennis/terminal"
	"github.com/lguibr/retrotennis/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	modeServer   = "server"
	modeTerminal = "terminal"
	modeWatch    = "watch"

	terminalSubscriberID = "terminal"
	watchSubscriberID    = "watch"
)

func main() {
	configPath := flag.String("config", "", "YAML config file overlaid on the defaults")
	mode := flag.String("mode", modeServer, "server, terminal or watch")
	logPath := flag.String("log", "", "log file (terminal mode defaults to retrotennis.log)")
	watchEvery := flag.Int("watch-every", 2, "watch mode draws every Nth tick")
	color := flag.Bool("color", true, "watch mode uses 24-bit colour")
	flag.Parse()

	if err := run(*configPath, *mode, *logPath, *watchEvery, *color); err != nil {
		fmt.Fprintln(os.Stderr, "retrotennis:", err)
		os.Exit(1)
	}
}

func run(configPath, mode, logPath string, watchEvery int, color bool) error {
	cfg, err := utils.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if logPath == "" && mode == modeTerminal {
		logPath = "retrotennis.log"
	}
	var outputs []string
	if logPath != "" {
		outputs = append(outputs, logPath)
	}
	logger, err := utils.NewLogger(cfg.LogLevel, outputs...)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := bollywood.NewEngine(logger)
	defer engine.Shutdown(utils.ShutdownTimeout)

	notifiers := game.Notifiers{game.LogNotifier{Logger: logger.Named("events")}}
	if mode == modeTerminal {
		sound := audio.NewNotifier(cfg.AudioVolume, logger)
		if err := sound.Init(); err != nil {
			logger.Warn("audio disabled", zap.Error(err))
		}
		defer sound.Close()
		notifiers = append(notifiers, sound)
	}

	matchPID := engine.Spawn(bollywood.NewProps(game.NewMatchActorProducer(game.MatchActorOptions{
		Config:   cfg,
		Notifier: notifiers,
		Idle:     game.NewDemoDriver(cfg, logger.Named("demo")),
		Logger:   logger,
	})))
	if matchPID == nil {
		return errors.New("failed to spawn match actor")
	}
	logger.Info("retrotennis started", zap.String("mode", mode), zap.Stringer("match", matchPID))

	g, gctx := errgroup.WithContext(ctx)
	switch mode {
	case modeServer:
		srv := server.New(engine, matchPID, logger)
		g.Go(func() error { return srv.ListenAndServe(gctx, cfg.ListenAddr) })

	case modeTerminal:
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer screen.Fini()

		term := terminal.New(screen, terminal.MatchControls{Engine: engine, Match: matchPID}, logger)
		engine.Send(matchPID, game.Subscribe{ID: terminalSubscriberID, Renderer: term}, nil)
		g.Go(func() error {
			defer stop()
			return term.Run(gctx)
		})

	case modeWatch:
		watcher := render.NewWatcher(os.Stdout, 80, 24, watchEvery, color)
		engine.Send(matchPID, game.Subscribe{ID: watchSubscriberID, Renderer: watcher}, nil)
		g.Go(func() error {
			<-gctx.Done()
			return nil
		})

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	err = g.Wait()
	logger.Info("retrotennis stopping", zap.Int("actors", engine.ActorCount()))
	return err
}
