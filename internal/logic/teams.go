package logic

import (
	"sort"
	"strings"
)

// UnknownTeam is offered for opponents outside the league table.
const UnknownTeam = "UNKNOWN"

var teamNames = map[string]string{
	"ATL": "Atlanta Hawks",
	"BOS": "Boston Celtics",
	"BKN": "Brooklyn Nets",
	"CHA": "Charlotte Hornets",
	"CHI": "Chicago Bulls",
	"CLE": "Cleveland Cavaliers",
	"DAL": "Dallas Mavericks",
	"DEN": "Denver Nuggets",
	"DET": "Detroit Pistons",
	"GSW": "Golden State Warriors",
	"HOU": "Houston Rockets",
	"IND": "Indiana Pacers",
	"LAC": "Los Angeles Clippers",
	"LAL": "Los Angeles Lakers",
	"MEM": "Memphis Grizzlies",
	"MIA": "Miami Heat",
	"MIL": "Milwaukee Bucks",
	"MIN": "Minnesota Timberwolves",
	"NOP": "New Orleans Pelicans",
	"NYK": "New York Knicks",
	"OKC": "Oklahoma City Thunder",
	"ORL": "Orlando Magic",
	"PHI": "Philadelphia 76ers",
	"PHX": "Phoenix Suns",
	"POR": "Portland Trail Blazers",
	"SAC": "Sacramento Kings",
	"SAS": "San Antonio Spurs",
	"TOR": "Toronto Raptors",
	"UTA": "Utah Jazz",
	"WAS": "Washington Wizards",
}

// TeamAbbreviations returns the sorted opponent choices, UNKNOWN included.
func TeamAbbreviations() []string {
	out := make([]string, 0, len(teamNames)+1)
	for abbr := range teamNames {
		out = append(out, abbr)
	}
	out = append(out, UnknownTeam)
	sort.Strings(out)
	return out
}

// IsKnownTeam reports whether abbr is a league team or UNKNOWN.
func IsKnownTeam(abbr string) bool {
	abbr = strings.ToUpper(abbr)
	_, ok := teamNames[abbr]
	return ok || abbr == UnknownTeam
}

// TeamName returns the full name for an abbreviation, or the input.
func TeamName(abbr string) string {
	if name, ok := teamNames[strings.ToUpper(abbr)]; ok {
		return name
	}
	return abbr
}
