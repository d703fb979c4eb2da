/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"

	"github.com/mikeb26/swisstd/entries"
	"github.com/mikeb26/swisstd/internal/config"
	"github.com/mikeb26/swisstd/internal/httpcache"
	"github.com/mikeb26/swisstd/internal/logging"
	"github.com/mikeb26/swisstd/store"
	"github.com/mikeb26/swisstd/swiss"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"init":      handleInit,
	"pair":      handlePair,
	"report":    handleReport,
	"pairings":  handlePairings,
	"standings": handleStandings,
	"final":     handleFinal,
	"list":      handleList,
	"delete":    handleDelete,
	"simulate":  handleSimulate,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// app is what every command needs once flags are parsed.
type app struct {
	cfg   *config.Config
	log   logging.Logger
	store store.Store
}

func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", os.Getenv("SWISSTD_CONFIG"),
		"YAML configuration file")
}

func sessionFlag(fs *flag.FlagSet) *string {
	return fs.String("session", "", "Session ID")
}

func setup(ctx context.Context, cfgPath string) *app {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fatalf("Error creating logger: %v", err)
	}
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		fatalf("Error opening %v store: %v", cfg.Store.Backend, err)
	}

	return &app{cfg: cfg, log: log, store: st}
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("swisstd.close: store close failed", "error", err)
	}
}

func (a *app) opts() []swiss.Option {
	return []swiss.Option{swiss.WithLogger(a.log)}
}

// session restores a stored session. Because snapshots are taken at round
// boundaries, an open round is regenerated by the caller with NextRound.
func (a *app) session(ctx context.Context, id string) *swiss.Session {
	if id == "" {
		fatalf("Please provide a valid --session ID.")
	}
	snap, err := a.store.Load(ctx, id)
	if err != nil {
		fatalf("Error loading session %v: %v", id, err)
	}
	s, err := swiss.Restore(snap, a.cfg.SwissConfig(), a.opts()...)
	if err != nil {
		fatalf("Error restoring session %v: %v", id, err)
	}
	return s
}

func (a *app) save(ctx context.Context, s *swiss.Session) {
	if err := a.store.Save(ctx, s.Snapshot()); err != nil {
		fatalf("Error saving session %v: %v", s.ID(), err)
	}
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

func handleInit(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	cfgPath := configFlag(fs)
	src := fs.String("entries", "", "Entries file or URL")
	id := fs.String("id", "", "Session ID (default: random)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *src == "" {
		fmt.Fprintln(os.Stderr, "Please provide --entries.")
		fs.Usage()
		os.Exit(1)
	}

	a := setup(ctx, *cfgPath)
	defer a.close()

	ttl, _ := a.cfg.CacheTTL()
	client := httpcache.NewCachedHttpClient(ctx, a.cfg.HTTP.CacheBucket, ttl, a.log)
	seeds, err := entries.Load(ctx, client, *src)
	if err != nil {
		fatalf("Error loading entries from %v: %v", *src, err)
	}

	reg := swiss.NewRegistry(a.cfg.SwissConfig(), a.opts()...)
	var s *swiss.Session
	if *id == "" {
		s, err = reg.Create(seeds)
	} else {
		s, err = swiss.NewSession(*id, seeds, a.cfg.SwissConfig(), a.opts()...)
	}
	if err != nil {
		fatalf("Error creating session: %v", err)
	}
	a.save(ctx, s)

	fmt.Printf("Created session %v with %v competitors\n", s.ID(), len(seeds))
	fmt.Printf("\nRun '%s pair --session %v' to see round 1 pairings\n", os.Args[0],
		s.ID())
}

func handlePair(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pair", flag.ExitOnError)
	cfgPath := configFlag(fs)
	id := sessionFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	a := setup(ctx, *cfgPath)
	defer a.close()

	s := a.session(ctx, *id)
	if _, err := s.NextRound(); err != nil {
		fmt.Printf("No further rounds: %v\n\n", err)
		// persist the terminal state
		a.save(ctx, s)
		fmt.Print(swiss.BuildPlacementsOutput(s))
		return
	}
	fmt.Print(swiss.BuildPairingsOutput(s))
}

func handleReport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	cfgPath := configFlag(fs)
	id := sessionFlag(fs)
	resultsFlag := fs.String("results", "", "Results as a:b=outcome,...")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	results, err := parseResults(*resultsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --results: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}

	a := setup(ctx, *cfgPath)
	defer a.close()

	s := a.session(ctx, *id)
	if _, err := s.NextRound(); err != nil {
		fatalf("Session %v has no open round: %v", s.ID(), err)
	}
	if err := s.SubmitResults(results); err != nil {
		fatalf("Results rejected: %v", err)
	}
	a.save(ctx, s)

	fmt.Print(swiss.BuildPairingsOutput(s))
	fmt.Print(swiss.BuildStandingsOutput(s))
}

func handlePairings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pairings", flag.ExitOnError)
	cfgPath := configFlag(fs)
	id := sessionFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	a := setup(ctx, *cfgPath)
	defer a.close()

	fmt.Print(swiss.BuildPairingsOutput(a.session(ctx, *id)))
}

func handleStandings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	cfgPath := configFlag(fs)
	id := sessionFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	a := setup(ctx, *cfgPath)
	defer a.close()

	fmt.Print(swiss.BuildStandingsOutput(a.session(ctx, *id)))
}

func handleFinal(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("final", flag.ExitOnError)
	cfgPath := configFlag(fs)
	id := sessionFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	a := setup(ctx, *cfgPath)
	defer a.close()

	fmt.Print(swiss.BuildPlacementsOutput(a.session(ctx, *id)))
}

func handleList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	a := setup(ctx, *cfgPath)
	defer a.close()

	ids, err := a.store.List(ctx)
	if err != nil {
		fatalf("Error listing sessions: %v", err)
	}
	if len(ids) == 0 {
		fmt.Println("No sessions found.")
		return
	}
	snaps, err := store.LoadAll(ctx, a.store, ids)
	if err != nil {
		fatalf("Error loading sessions: %v", err)
	}
	fmt.Print(buildListOutput(snaps))
}

func handleDelete(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	cfgPath := configFlag(fs)
	id := sessionFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *id == "" {
		fatalf("Please provide a valid --session ID.")
	}

	a := setup(ctx, *cfgPath)
	defer a.close()

	if err := a.store.Delete(ctx, *id); err != nil {
		fatalf("Error deleting session %v: %v", *id, err)
	}
	fmt.Printf("Deleted session %v\n", *id)
}

func handleSimulate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := configFlag(fs)
	players := fs.Int("players", 8, "Competitors per session")
	sessions := fs.Int("sessions", 1, "Number of sessions to run concurrently")
	seed := fs.Int64("seed", 1, "Random seed for results")
	save := fs.Bool("save", false, "Save finished sessions to the store")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *players < 1 || *sessions < 1 {
		fatalf("--players and --sessions must be positive")
	}

	a := setup(ctx, *cfgPath)
	defer a.close()

	reg := swiss.NewRegistry(a.cfg.SwissConfig(), a.opts()...)
	done, err := simulate(ctx, reg, *players, *sessions, *seed)
	if err != nil {
		fatalf("Simulation failed: %v", err)
	}

	for _, s := range done {
		if *save {
			a.save(ctx, s)
		}
	}
	if len(done) == 1 {
		fmt.Printf("Session %v\n\n", done[0].ID())
		fmt.Print(swiss.BuildPlacementsOutput(done[0]))
		return
	}
	for _, s := range done {
		fmt.Printf("%v  rounds:%-3v leader: %v\n", s.ID(), len(s.Rounds()),
			leader(s))
	}
}
