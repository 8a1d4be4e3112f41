package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/iceprop/prop-lab/internal/logic"
	"github.com/iceprop/prop-lab/internal/models"
	"github.com/iceprop/prop-lab/internal/store"
)

// Prints a player's archived game log and the hit rate of one line.
func main() {
	playerID := flag.Int64("player", 1628369, "player id")
	season := flag.String("season", logic.CurrentSeason(time.Now()), "season label")
	stat := flag.String("stat", string(models.StatPoints), "prop stat")
	line := flag.Float64("line", 20.5, "prop line")
	flag.Parse()

	chURL := os.Getenv("CLICKHOUSE_URL")
	if chURL == "" {
		chURL = "clickhouse://localhost:9000/proplab"
	}

	opts, err := clickhouse.ParseDSN(chURL)
	if err != nil {
		log.Fatalf("Failed to parse DSN: %v", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open connection: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	games, err := store.NewArchiveReader(conn).LoadGameLog(ctx, *playerID, *season)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	fmt.Printf("Archived games for %d in %s: %d\n", *playerID, *season, len(games))

	for _, g := range games {
		fmt.Printf("%s  %-14s %5.1f min  PTS %2d REB %2d AST %2d\n",
			g.Date.Format("2006-01-02"), g.Matchup, g.Minutes,
			g.Stats[models.StatPoints], g.Stats[models.StatRebounds], g.Stats[models.StatAssists])
	}

	if err := logic.DeriveLog(games); err != nil {
		log.Fatalf("Archived rows incomplete: %v", err)
	}
	res, err := logic.ComputeHitRate(games, models.Stat(*stat), *line, logic.DefaultWindows)
	if err != nil {
		log.Fatalf("Hit rate failed: %v", err)
	}
	fmt.Printf("%s %s: %s\n", *stat, logic.FormatLine(*line), res.Summary)
}
