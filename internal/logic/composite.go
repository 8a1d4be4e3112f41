package logic

import "github.com/iceprop/prop-lab/internal/models"

// compositeParts lists the base stats each composite is summed from.
var compositeParts = []struct {
	stat  models.Stat
	parts []models.Stat
}{
	{models.StatPtsAst, []models.Stat{models.StatPoints, models.StatAssists}},
	{models.StatPtsReb, []models.Stat{models.StatPoints, models.StatRebounds}},
	{models.StatAstReb, []models.Stat{models.StatAssists, models.StatRebounds}},
	{models.StatStlBlk, []models.Stat{models.StatSteals, models.StatBlocks}},
	{models.StatPRA, []models.Stat{models.StatPoints, models.StatRebounds, models.StatAssists}},
}

// DeriveComposites adds the composite columns to rec. Every base stat must
// be present; the record is left untouched when one is missing.
func DeriveComposites(rec *models.GameRecord) error {
	for _, s := range models.BaseStats {
		if _, ok := rec.Stats[s]; !ok {
			return &MissingFieldError{GameID: rec.GameID, Stat: s}
		}
	}

	for _, c := range compositeParts {
		sum := 0
		for _, p := range c.parts {
			sum += rec.Stats[p]
		}
		rec.Stats[c.stat] = sum
	}
	return nil
}

// DeriveLog derives composites for every game. It stops at the first row
// that fails.
func DeriveLog(games []models.GameRecord) error {
	for i := range games {
		if err := DeriveComposites(&games[i]); err != nil {
			return err
		}
	}
	return nil
}
