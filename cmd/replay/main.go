package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/zombiechess/internal/archive"
	"github.com/justinabrahms/zombiechess/internal/chess"
)

func main() {
	var finalOnly, verbose bool
	flag.BoolVar(&finalOnly, "final", false, "Only print the position the archive was taken at")
	flag.BoolVar(&verbose, "v", false, "Log each decoded block")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: zombiechess-replay [-final] [-v] GAME.car")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open archive")
	}
	defer f.Close()

	arc, err := archive.Read(f)
	if err != nil {
		log.Fatal().Err(err).Str("path", flag.Arg(0)).Msg("Failed to read archive")
	}
	log.Debug().Str("root", arc.Root.String()).Int("snapshots", len(arc.Snapshots)).Msg("Archive verified")

	start := 0
	if finalOnly {
		start = len(arc.Snapshots) - 1
	}
	for i := start; i < len(arc.Snapshots); i++ {
		g, err := chess.Restore(arc.Snapshots[i], nil)
		if err != nil {
			log.Fatal().Err(err).Int("index", i).Str("cid", arc.CIDs[i].String()).Msg("Failed to restore snapshot")
		}
		log.Debug().Int("index", i).Str("cid", arc.CIDs[i].String()).Msg("Snapshot restored")
		fmt.Printf("%3d  %-10s  %-20s  %s\n", i, g.CapturePolicy(), g.Status(), g.FEN())
	}
}
