// Package main runs a small view-model walkthrough of the chop library: a
// media player whose attributes are observed by a pretend UI.
//
// Configuration is via environment variables (or a .env file):
//
//	CHOP_LOG_LEVEL   - debug, info, warn or error (default: info)
//	CHOP_ID_SOURCE   - sequence or uuid (default: sequence)
//	CHOP_SILENT_INIT - load the initial track without change events (default: true)
//
// Usage:
//
//	CHOP_LOG_LEVEL=debug go run ./cmd/demo
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/spetersoncode/chop"
	"github.com/spetersoncode/chop/event"
)

// Player is the state behind the player view.
type Player struct {
	Title    string
	Volume   int
	Playing  bool
	Queue    []string
	Position *int
}

var (
	Players = chop.NewSchema[Player]("player")

	Title    = chop.Define(Players, "title", func(p *Player) *string { return &p.Title })
	Volume   = chop.Define(Players, "volume", func(p *Player) *int { return &p.Volume }, chop.Default(50))
	Playing  = chop.Define(Players, "playing", func(p *Player) *bool { return &p.Playing })
	Queue    = chop.Define(Players, "queue", func(p *Player) *[]string { return &p.Queue })
	Position = chop.Define(Players, "position", func(p *Player) **int { return &p.Position })
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	player := chop.New(Players, nil,
		chop.WithIDGenerator(cfg.IDGenerator()),
		chop.WithLogger(logger),
	)
	logger.Info("player created", "model", player.ID(), "volume", chop.Get(player, Volume))

	player.OnAttrsChanged(
		[]chop.Key[Player]{Title, Playing},
		chop.ChangeFunc(func(p *chop.Model[Player], _ any) {
			state := "paused"
			if chop.Get(p, Playing) {
				state = "playing"
			}
			fmt.Printf("[view] %s (%s)\n", chop.Get(p, Title), state)
		}),
		"header",
	)
	player.OnAttrChanged(Volume, Volume.Changed(func(_ *chop.Model[Player], v int) {
		fmt.Printf("[view] volume %s\n", strings.Repeat("|", v/10))
	}), "mixer")
	player.OnceAttrChanged(Position, event.Func(func(e event.Event) {
		fmt.Println("[view] first seek, showing the timeline")
	}), "timeline")

	// Advance the queue when a track finishes.
	player.On("ended", event.Func(func(e event.Event) {
		queue := chop.Get(player, Queue)
		if len(queue) == 0 {
			chop.Set(player, Playing, false)
			return
		}
		player.Fill([]chop.Assignment[Player]{
			Title.To(queue[0]),
			Queue.To(queue[1:]),
			Position.To(nil),
		})
	}), nil)

	var fill []chop.FillOption
	if cfg.SilentInit {
		fill = append(fill, chop.Silent())
	}
	player.Fill([]chop.Assignment[Player]{
		Title.To("Intro"),
		Queue.To([]string{"Verse", "Outro"}),
	}, fill...)

	chop.Set(player, Playing, true)
	chop.Set(player, Volume, 50) // unchanged, nothing rendered
	chop.Set(player, Volume, 80)

	for _, seconds := range []int{12, 30} {
		pos := seconds
		chop.Set(player, Position, &pos)
	}

	player.Trigger("ended").Trigger("ended").Trigger("ended")

	if err := player.SetAttr("volume", "loud"); err != nil {
		logger.Warn("rejected update", "error", err)
	}

	// The mixer goes away; volume changes are no longer rendered.
	player.Off("", nil, "mixer")
	chop.Set(player, Volume, 10)

	snapshot, err := json.MarshalIndent(player, "", "  ")
	if err != nil {
		log.Fatalf("Snapshot error: %v", err)
	}
	fmt.Println(string(snapshot))
}
