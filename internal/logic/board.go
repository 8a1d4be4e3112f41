package logic

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iceprop/prop-lab/internal/models"
)

var (
	ErrUnknownPin      = errors.New("pin not found")
	ErrUnknownOpponent = errors.New("unknown opponent")
	ErrInvalidPin      = errors.New("invalid pinned prop")
	ErrInvalidGames    = errors.New("games to show must be 5, 10, 15 or 20")
)

const defaultGamesToShow = 15

// NewBoard returns an empty board for sessionID.
func NewBoard(sessionID, opponent string) models.Board {
	return models.Board{
		SessionID:   sessionID,
		Pins:        []models.PinnedProp{},
		Opponent:    opponent,
		GamesToShow: defaultGamesToShow,
	}
}

// NewPinnedProp builds a board entry from a pin request.
func NewPinnedProp(req models.PinRequest, now time.Time) (models.PinnedProp, error) {
	if !models.IsPropStat(req.Stat) {
		return models.PinnedProp{}, fmt.Errorf("%w: unknown stat %q", ErrInvalidPin, req.Stat)
	}
	if err := ValidateLine(req.Line); err != nil {
		return models.PinnedProp{}, err
	}
	implied, err := ImpliedProbability(req.Odds)
	if err != nil {
		return models.PinnedProp{}, err
	}

	return models.PinnedProp{
		ID:                 uuid.NewString(),
		Player:             req.Player,
		Team:               req.Team,
		Matchup:            req.Matchup,
		Stat:               req.Stat,
		Line:               FormatLine(req.Line),
		Odds:               strings.TrimSpace(req.Odds),
		HitRateSummary:     req.HitRateSummary,
		Timestamp:          now.UTC().Format(time.RFC3339),
		ImpliedProbability: implied,
	}, nil
}

// samePin matches entries on player, stat, line and odds.
func samePin(a, b models.PinnedProp) bool {
	return a.Player == b.Player && a.Stat == b.Stat && a.Line == b.Line && a.Odds == b.Odds
}

// PinProp appends p unless an equal entry is already pinned.
func PinProp(b models.Board, p models.PinnedProp) (models.Board, bool) {
	for _, existing := range b.Pins {
		if samePin(existing, p) {
			return b, false
		}
	}
	pins := make([]models.PinnedProp, len(b.Pins), len(b.Pins)+1)
	copy(pins, b.Pins)
	b.Pins = append(pins, p)
	return b, true
}

// UnpinProp removes the entry with id.
func UnpinProp(b models.Board, id string) (models.Board, bool) {
	pins := make([]models.PinnedProp, 0, len(b.Pins))
	found := false
	for _, p := range b.Pins {
		if p.ID == id {
			found = true
			continue
		}
		pins = append(pins, p)
	}
	b.Pins = pins
	return b, found
}

func ClearBoard(b models.Board) models.Board {
	b.Pins = []models.PinnedProp{}
	return b
}

// SetBoardOpponent selects the opponent used for head-to-head rows.
func SetBoardOpponent(b models.Board, opponent string) (models.Board, error) {
	opponent = strings.ToUpper(strings.TrimSpace(opponent))
	if !IsKnownTeam(opponent) {
		return b, fmt.Errorf("%w: %q", ErrUnknownOpponent, opponent)
	}
	b.Opponent = opponent
	return b, nil
}

// SetBoardGames selects how many recent games the report rows show.
func SetBoardGames(b models.Board, games int) (models.Board, error) {
	switch games {
	case 5, 10, 15, 20:
	default:
		return b, fmt.Errorf("%w: %d", ErrInvalidGames, games)
	}
	b.GamesToShow = games
	return b, nil
}

// ExportBoard copies the pins into the exchange container verbatim.
func ExportBoard(b models.Board) models.BoardExport {
	pins := make([]models.PinnedProp, len(b.Pins))
	copy(pins, b.Pins)
	return models.BoardExport{MyBoard: pins}
}

// ImportBoard replaces the pins with the imported entries. Entries keep
// their fields as exported; only missing ids are filled in.
func ImportBoard(b models.Board, exp models.BoardExport) (models.Board, error) {
	pins := make([]models.PinnedProp, 0, len(exp.MyBoard))
	for i, p := range exp.MyBoard {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Player == "" || !models.IsPropStat(p.Stat) {
			return b, fmt.Errorf("%w: entry %d", ErrInvalidPin, i)
		}
		if _, err := time.Parse(time.RFC3339, p.Timestamp); err != nil {
			return b, fmt.Errorf("%w: entry %d: timestamp %q", ErrInvalidPin, i, p.Timestamp)
		}
		line, err := strconv.ParseFloat(p.Line, 64)
		if err != nil || ValidateLine(line) != nil || FormatLine(line) != p.Line {
			return b, fmt.Errorf("%w: entry %d: line %q", ErrInvalidPin, i, p.Line)
		}
		if p.Odds != "" {
			if _, err := ParseAmericanOdds(p.Odds); err != nil || strings.TrimSpace(p.Odds) != p.Odds {
				return b, fmt.Errorf("%w: entry %d: odds %q", ErrInvalidPin, i, p.Odds)
			}
		}
		pins = append(pins, p)
	}
	b.Pins = pins
	return b, nil
}

type boardService struct {
	store           BoardStore
	defaultOpponent string
	now             func() time.Time
	logger          *zap.SugaredLogger
}

func NewBoardService(store BoardStore, defaultOpponent string, logger *zap.Logger) BoardService {
	return &boardService{
		store:           store,
		defaultOpponent: defaultOpponent,
		now:             time.Now,
		logger:          logger.Sugar(),
	}
}

// GetBoard loads the session's board, starting a fresh one when none exists.
func (s *boardService) GetBoard(ctx context.Context, sessionID string) (*models.Board, error) {
	b, err := s.store.LoadBoard(ctx, sessionID)
	if errors.Is(err, ErrNoData) {
		fresh := NewBoard(sessionID, s.defaultOpponent)
		return &fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	return b, nil
}

func (s *boardService) save(ctx context.Context, b models.Board) (*models.Board, error) {
	b.UpdatedAt = s.now().UTC()
	if err := s.store.SaveBoard(ctx, &b); err != nil {
		return nil, fmt.Errorf("save board: %w", err)
	}
	return &b, nil
}

func (s *boardService) Pin(ctx context.Context, sessionID string, req models.PinRequest) (*models.PinResponse, error) {
	b, err := s.GetBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if req.Matchup == "" {
		req.Matchup = b.Opponent
	}

	entry, err := NewPinnedProp(req, s.now())
	if err != nil {
		return nil, err
	}

	next, added := PinProp(*b, entry)
	if !added {
		return &models.PinResponse{Board: *b, Pinned: false, Reason: "already pinned"}, nil
	}

	saved, err := s.save(ctx, next)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("Pinned prop", "session", sessionID, "player", entry.Player, "stat", entry.Stat, "line", entry.Line, "odds", entry.Odds)
	return &models.PinResponse{Board: *saved, Pinned: true}, nil
}

func (s *boardService) Unpin(ctx context.Context, sessionID, pinID string) (*models.Board, error) {
	b, err := s.GetBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, found := UnpinProp(*b, pinID)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPin, pinID)
	}
	return s.save(ctx, next)
}

func (s *boardService) Clear(ctx context.Context, sessionID string) (*models.Board, error) {
	b, err := s.GetBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, ClearBoard(*b))
}

// Reset forgets the session, returning the board a new session starts with.
func (s *boardService) Reset(ctx context.Context, sessionID string) (*models.Board, error) {
	if err := s.store.DeleteBoard(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("delete board: %w", err)
	}
	fresh := NewBoard(sessionID, s.defaultOpponent)
	return &fresh, nil
}

func (s *boardService) SetOpponent(ctx context.Context, sessionID, opponent string) (*models.Board, error) {
	b, err := s.GetBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := SetBoardOpponent(*b, opponent)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, next)
}

func (s *boardService) SetGamesToShow(ctx context.Context, sessionID string, games int) (*models.Board, error) {
	b, err := s.GetBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := SetBoardGames(*b, games)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, next)
}

func (s *boardService) Export(ctx context.Context, sessionID string) (*models.BoardExport, error) {
	b, err := s.GetBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	exp := ExportBoard(*b)
	return &exp, nil
}

func (s *boardService) Import(ctx context.Context, sessionID string, exp models.BoardExport) (*models.Board, error) {
	b, err := s.GetBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := ImportBoard(*b, exp)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("Imported board", "session", sessionID, "pins", len(next.Pins))
	return s.save(ctx, next)
}
