// cmd/puzzle-replay
//
// Replays a scripted sequence of drops through a puzzle session and logs
// every renderer effect. Useful for checking a catalog is solvable and for
// eyeballing effect timings without a front end.
//
// Usage:
//
//	puzzle-replay -script moves.yaml [-catalog pieces.yaml] [-realtime]
//
// Script format (YAML):
//
//	cellSize: 100       # board units per grid cell
//	expectWin: true     # exit non-zero if the puzzle is not solved
//	moves:
//	  - {piece: p1, col: 0, row: 0}
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/edgepuzzle/internal/board"
	"github.com/robalobadob/edgepuzzle/internal/catalog"
	"github.com/robalobadob/edgepuzzle/internal/puzzle"
	"github.com/robalobadob/edgepuzzle/internal/schedule"
)

type move struct {
	Piece string `yaml:"piece"`
	Col   int    `yaml:"col"`
	Row   int    `yaml:"row"`
}

type script struct {
	CellSize  float64 `yaml:"cellSize"`
	ExpectWin bool    `yaml:"expectWin"`
	Moves     []move  `yaml:"moves"`
}

var errNotSolved = errors.New("script finished without solving the puzzle")

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "puzzle-replay:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("puzzle-replay", flag.ContinueOnError)
	fs.SetOutput(out)
	scriptPath := fs.String("script", "", "path to the YAML move script")
	catalogPath := fs.String("catalog", "", "YAML catalog (default: embedded 3x3)")
	realtime := fs.Bool("realtime", false, "wait out effect delays instead of rendering immediately")
	level := fs.String("log-level", "info", "zerolog level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *scriptPath == "" {
		return errors.New("-script is required")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(*level); err == nil {
		logger = logger.Level(lvl)
	}

	sc, err := loadScript(*scriptPath)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(*catalogPath)
	if err != nil {
		return err
	}

	var clock schedule.Clock = schedule.ImmediateClock{}
	if *realtime {
		clock = schedule.RealClock{}
	}
	sched := schedule.New(clock, schedule.LogRenderer{Logger: logger})

	sess, err := replay(sc, cat, sched, logger)
	sched.Wait()
	if err != nil {
		return err
	}

	snap := sess.Snapshot()
	logger.Info().
		Str("status", string(snap.Status)).
		Int("moves", snap.Moves).
		Int("connectedSides", snap.TotalConnectedSides).
		Int("winningNumber", snap.WinningNumber).
		Msg("replay finished")
	if sc.ExpectWin && !sess.Won() {
		return errNotSolved
	}
	return nil
}

func loadScript(path string) (script, error) {
	var sc script
	b, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return sc, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// replay drives one session through the script. The board plays the part of
// the collision layer: it reports neighbors and sends rejected pieces back.
func replay(sc script, cat *catalog.Catalog, sched *schedule.Scheduler, logger zerolog.Logger) (*puzzle.Session, error) {
	b := board.New(sc.CellSize)
	sess := puzzle.NewSession("replay", cat)

	for i, m := range sc.Moves {
		if occ, ok := b.Occupant(m.Col, m.Row); ok && occ != m.Piece {
			effects, err := sess.DragStart(occ)
			if err != nil {
				return sess, fmt.Errorf("move %d: %w", i+1, err)
			}
			sched.Schedule(effects)
			b.Lift(occ)
			logger.Debug().Str("piece", occ).Msg("moved to tray")
		}

		effects, err := sess.DragStart(m.Piece)
		if err != nil {
			return sess, fmt.Errorf("move %d: %w", i+1, err)
		}
		sched.Schedule(effects)
		b.Lift(m.Piece)

		pos := b.Place(m.Piece, m.Col, m.Row)
		out, err := sess.DragStop(pos, b.Adjacent(m.Piece))
		if err != nil {
			return sess, fmt.Errorf("move %d: %w", i+1, err)
		}
		sched.Schedule(out.Effects)

		outcome := "none"
		switch {
		case out.Resolution.Failed():
			outcome = "no_fit"
			b.ReturnToOrigin(m.Piece)
		case out.Resolution.Committed():
			outcome = "fit"
		}
		logger.Info().
			Int("move", i+1).
			Str("piece", m.Piece).
			Int("col", m.Col).
			Int("row", m.Row).
			Str("outcome", outcome).
			Int("connectedSides", sess.TotalConnectedSides()).
			Bool("won", out.Won).
			Msg("drop")
	}
	return sess, nil
}
