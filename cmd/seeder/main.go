package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iceprop/prop-lab/internal/logic"
	"github.com/iceprop/prop-lab/internal/models"
)

// demoProps are pinned onto the seeded board, resolved by player name.
var demoProps = []struct {
	Player string
	Stat   models.Stat
	Line   float64
	Odds   string
}{
	{"Jayson Tatum", models.StatPoints, 26.5, "-115"},
	{"Jaylen Brown", models.StatPRA, 34.5, "-110"},
	{"Derrick White", models.StatThrees, 2.5, "+120"},
}

type seeder struct {
	base   string
	client *http.Client
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080/api/v1", "API base URL")
	session := flag.String("session", "demo", "board session id")
	opponent := flag.String("opponent", "NYK", "opponent for the seeded board")
	flag.Parse()

	s := &seeder{base: *apiURL, client: &http.Client{Timeout: 30 * time.Second}}

	if err := s.do(http.MethodDelete, "/board/"+*session, nil, nil); err != nil {
		log.Fatalf("Failed to reset board: %v", err)
	}
	if err := s.do(http.MethodPut, "/board/"+*session+"/opponent",
		models.SetOpponentRequest{Opponent: *opponent}, nil); err != nil {
		log.Fatalf("Failed to set opponent: %v", err)
	}

	for _, p := range demoProps {
		var player models.ActivePlayer
		if err := s.do(http.MethodGet, "/players/search?name="+url.QueryEscape(p.Player), nil, &player); err != nil {
			log.Printf("Skipping %s: %v", p.Player, err)
			continue
		}

		var hr models.HitRateResult
		path := fmt.Sprintf("/players/%d/hitrate?stat=%s&line=%s",
			player.ID, url.QueryEscape(string(p.Stat)), strconv.FormatFloat(p.Line, 'f', 1, 64))
		if err := s.do(http.MethodGet, path, nil, &hr); err != nil {
			log.Printf("No hit rate for %s %s: %v", p.Player, p.Stat, err)
		}

		pin := models.PinRequest{
			Player:         player.FullName,
			Team:           player.TeamAbbr,
			Matchup:        player.TeamAbbr + " vs " + *opponent,
			Stat:           p.Stat,
			Line:           p.Line,
			Odds:           p.Odds,
			HitRateSummary: hr.Summary,
		}
		var resp models.PinResponse
		if err := s.do(http.MethodPost, "/board/"+*session+"/pins", pin, &resp); err != nil {
			log.Printf("Failed to pin %s %s: %v", p.Player, p.Stat, err)
			continue
		}
		fmt.Printf("Pinned %s %s %s (%s)\n", player.FullName, p.Stat, logic.FormatLine(p.Line), hr.Summary)
	}

	var export models.BoardExport
	if err := s.do(http.MethodGet, "/board/"+*session+"/export", nil, &export); err != nil {
		log.Fatalf("Failed to export board: %v", err)
	}
	out, _ := json.MarshalIndent(export, "", "  ")
	fmt.Println(string(out))
}

func (s *seeder) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}
