// Command cadence is a headless audio player: it plays the files given
// on the command line and exposes transport control through a media
// session and a desktop notification surface. With command
// interception enabled in the config, external transport commands are
// surfaced as events and applied here, in one place, instead of
// reaching the engine directly.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/cadence/internal/config"
	"github.com/llehouerou/cadence/internal/engine"
	"github.com/llehouerou/cadence/internal/errmsg"
	"github.com/llehouerou/cadence/internal/metadata"
	"github.com/llehouerou/cadence/internal/notify"
	"github.com/llehouerou/cadence/internal/playback"
	"github.com/llehouerou/cadence/internal/resume"
	"github.com/llehouerou/cadence/internal/session"
	"github.com/llehouerou/cadence/internal/stderr"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Capture ALSA/decoder noise written straight to fd 2 before any C
	// library initializes; the logger keeps the real terminal.
	captured := make(chan string, 64)
	if err := stderr.Start(func(line string) {
		select {
		case captured <- line:
		default:
		}
	}); err != nil {
		fmt.Fprintln(os.Stderr, "stderr capture unavailable:", err)
	}
	defer stderr.Stop()

	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr.Original(), TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	go func() {
		for line := range captured {
			log.Debug().Str("source", "audio").Msg(line)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}

	player := engine.NewPlayer(engine.PlayerOptions{
		SpeakerBuffer: cfg.SpeakerBuffer(),
	})
	defer player.Close()

	svc := playback.New(player, playback.Options{
		InterceptCommands: cfg.Playback.InterceptCommands,
		ForwardBy:         cfg.ForwardBy(),
		RewindBy:          cfg.RewindBy(),
	})
	defer svc.Close()

	resolver := metadata.NewResolver()

	var store *resume.Store
	if cfg.ResumeEnabled() {
		store, err = resume.Open()
		if err != nil {
			log.Warn().Err(err).Msg(string(errmsg.OpResumeLoad))
		} else {
			defer store.Close()
		}
	}

	queue := buildQueue(os.Args[1:], store, log)
	if len(queue) == 0 {
		return fmt.Errorf("usage: cadence <files...>")
	}
	svc.SetQueue(queue)

	if cfg.SessionEnabled() {
		sess, err := session.New(svc, resolver)
		if err != nil {
			log.Warn().Err(err).Msg(string(errmsg.OpSessionStart))
		} else {
			defer sess.Close()
		}
	}

	if cfg.NotificationsEnabled() {
		notifier, err := notify.New()
		if err != nil {
			log.Warn().Err(err).Msg(string(errmsg.OpNotifySend))
		} else {
			syncer := notify.NewSyncer(notifier, resolver, log)
			syncer.ShowFileInfo = cfg.Notifications.ShowFileInfo
			go syncer.Run(svc.Subscribe())
		}
	}

	if err := svc.Play(); err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpPlaybackStart, err))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	observe(svc, queue, resolver, store, log, sigCh)
	return nil
}

// buildQueue turns command line paths into queue items, falling back
// to the saved session when no paths are given.
func buildQueue(paths []string, store *resume.Store, log zerolog.Logger) []engine.Item {
	if len(paths) == 0 && store != nil {
		saved, err := store.Load()
		if err != nil {
			log.Warn().Err(err).Msg(string(errmsg.OpResumeLoad))
			return nil
		}
		if saved != nil {
			return saved.Queue
		}
		return nil
	}

	items := make([]engine.Item, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			log.Warn().Str("path", p).Msg(errmsg.FormatWith(errmsg.OpQueueAdd, p, err))
			continue
		}
		items = append(items, engine.Item{Path: p})
	}
	return items
}

// observe is the host-side event loop: it keeps the resolver pointed
// at the current item, applies intercepted commands, persists the
// session, and exits once playback reaches a final state.
func observe(svc playback.Service, queue []engine.Item, resolver *metadata.Resolver, store *resume.Store, log zerolog.Logger, sigCh <-chan os.Signal) {
	sub := svc.Subscribe()
	saveTick := time.NewTicker(5 * time.Second)
	defer saveTick.Stop()

	for {
		select {
		case <-sigCh:
			log.Info().Msg("shutting down")
			svc.Stop()
			saveSession(svc, queue, store)
			return

		case e := <-sub.StateChanged:
			log.Info().
				Stringer("from", e.Previous).
				Stringer("to", e.Current).
				Msg("state")
			if e.Current == playback.StateEnded || e.Current == playback.StateError {
				saveSession(svc, queue, store)
				return
			}

		case e := <-sub.ItemChanged:
			resolver.SetItem(e.Item)
			if e.Item != nil {
				log.Info().
					Str("path", e.Item.Path).
					Stringer("reason", e.Reason.Kind).
					Msg("item")
				if value, ok := metadata.ReadRating(e.Item.Path); ok {
					svc.SetRating(playback.Rating{Rated: true, Value: value})
				} else {
					svc.SetRating(playback.Rating{})
				}
			}

		case r := <-sub.PositionChanged:
			log.Debug().
				Stringer("reason", r.Kind).
				Dur("old", r.Old).
				Dur("new", r.New).
				Msg("position")

		case info := <-sub.Error:
			log.Error().Str("code", info.Code).Str("message", info.Message).Msg("playback error")

		case cmd := <-sub.Commands:
			// Interception is on: the session published the command and
			// the host decides. Default policy applies it as-is.
			log.Info().Stringer("command", cmd).Msg("external command")
			applyCommand(svc, cmd)

		case <-saveTick.C:
			saveSession(svc, queue, store)
		}
	}
}

// applyCommand executes an intercepted external command against the
// real transport.
func applyCommand(svc playback.Service, cmd playback.Command) {
	switch c := cmd.(type) {
	case playback.PlayCommand:
		_ = svc.Play()
	case playback.PauseCommand:
		svc.Pause()
	case playback.NextCommand:
		_ = svc.Next()
	case playback.PreviousCommand:
		_ = svc.Previous()
	case playback.ForwardCommand:
		svc.Forward()
	case playback.RewindCommand:
		svc.Rewind()
	case playback.StopCommand:
		svc.Stop()
	case playback.SeekCommand:
		svc.SeekTo(c.Position)
	case playback.RateCommand:
		svc.SetRate(c.Rate)
	}
}

func saveSession(svc playback.Service, queue []engine.Item, store *resume.Store) {
	if store == nil {
		return
	}
	store.Save(resume.Session{
		Queue:    queue,
		Index:    svc.QueueIndex(),
		Position: svc.Position(),
	})
}
