package cricketdata

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
)

var inningSuffixRegex = regexp.MustCompile(`(?i)\s+(?:inning|innings)\s*(\d+)?\s*$`)

var completedStatuses = map[string]struct{}{
	"complete":  {},
	"completed": {},
	"finished":  {},
	"ended":     {},
	"result":    {},
}

// Decoder turns raw feed payloads into scorecards. It understands the
// compact feed format and the verbose provider format.
type Decoder struct{}

func (Decoder) DecodeScorecard(raw []byte) (scorecard.Scorecard, error) {
	return Decode(raw)
}

// Decode reads either payload shape. Numeric fields may arrive as JSON
// numbers or strings; blanks and dashes read as zero.
func Decode(raw []byte) (scorecard.Scorecard, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return scorecard.Scorecard{}, crerr.Wrap(scorecard.ErrInvalidScorecard, "empty payload")
	}

	var shape struct {
		Data    *sonicRaw `json:"data"`
		Innings *sonicRaw `json:"innings"`
	}
	if err := sonic.Unmarshal(trimmed, &shape); err != nil {
		return scorecard.Scorecard{}, crerr.Wrapf(scorecard.ErrInvalidScorecard, "decode payload: %v", err)
	}

	var (
		sc  scorecard.Scorecard
		err error
	)
	switch {
	case shape.Data != nil:
		sc, err = decodeVerbose(trimmed)
	case shape.Innings != nil:
		sc, err = decodeCompact(trimmed)
	default:
		return scorecard.Scorecard{}, crerr.Wrap(scorecard.ErrInvalidScorecard, "payload has neither data nor innings")
	}
	if err != nil {
		return scorecard.Scorecard{}, err
	}

	fillFieldingTeams(&sc)
	return sc, nil
}

func decodeCompact(raw []byte) (scorecard.Scorecard, error) {
	var payload compactPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return scorecard.Scorecard{}, crerr.Wrapf(scorecard.ErrInvalidScorecard, "decode compact payload: %v", err)
	}

	completed := isCompletedStatus(payload.Status)
	if payload.Complete != nil {
		completed = *payload.Complete
	}

	sc := scorecard.Scorecard{
		MatchID:   strings.TrimSpace(string(payload.MatchID)),
		Format:    strings.ToLower(strings.TrimSpace(payload.Format)),
		Completed: completed,
		Innings:   make([]scorecard.Innings, 0, len(payload.Innings)),
	}
	for i, item := range payload.Innings {
		number := item.Number
		if number <= 0 {
			number = i + 1
		}
		inn := scorecard.Innings{
			Number:       number,
			BattingTeam:  strings.TrimSpace(item.Team),
			FieldingTeam: strings.TrimSpace(item.Opponent),
			Batting:      make([]scorecard.BattingLine, 0, len(item.Batting)),
			Bowling:      make([]scorecard.BowlingLine, 0, len(item.Bowling)),
		}
		for _, row := range item.Batting {
			inn.Batting = append(inn.Batting, scorecard.BattingLine{
				PlayerID:       strings.TrimSpace(string(row.PID)),
				Name:           strings.TrimSpace(row.Name),
				Alias:          strings.TrimSpace(row.Alias),
				Runs:           row.Runs.Int(),
				Balls:          row.Balls.Int(),
				Fours:          row.Fours.Int(),
				Sixes:          row.Sixes.Int(),
				StrikeRateText: firstNonEmpty(string(row.StrkRate), string(row.StrikeRate)),
				Dismissal:      strings.TrimSpace(row.Dismissal),
			})
		}
		for _, row := range item.Bowling {
			inn.Bowling = append(inn.Bowling, scorecard.BowlingLine{
				PlayerID:      strings.TrimSpace(string(row.PID)),
				Name:          strings.TrimSpace(row.Name),
				Alias:         strings.TrimSpace(row.Alias),
				OversNotation: float64(row.Overs),
				Maidens:       row.Maidens.Int(),
				RunsConceded:  row.Runs.Int(),
				Wickets:       row.Wickets.Int(),
				EconomyText:   firstNonEmpty(string(row.Econ), string(row.Economy)),
			})
		}
		sc.Innings = append(sc.Innings, inn)
	}
	return sc, nil
}

func decodeVerbose(raw []byte) (scorecard.Scorecard, error) {
	var payload verbosePayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return scorecard.Scorecard{}, crerr.Wrapf(scorecard.ErrInvalidScorecard, "decode provider payload: %v", err)
	}
	if payload.Data == nil {
		return scorecard.Scorecard{}, crerr.Wrap(scorecard.ErrInvalidScorecard, "provider payload has no data")
	}
	match := payload.Data

	sc := scorecard.Scorecard{
		MatchID:   strings.TrimSpace(string(match.ID)),
		Format:    strings.ToLower(strings.TrimSpace(match.MatchType)),
		Completed: match.MatchEnded || isCompletedStatus(match.Status),
		Innings:   make([]scorecard.Innings, 0, len(match.Scorecard)),
	}
	for i, item := range match.Scorecard {
		team, number := splitInningLabel(item.Inning)
		if number <= 0 {
			number = i + 1
		}
		inn := scorecard.Innings{
			Number:       number,
			BattingTeam:  team,
			FieldingTeam: otherTeam(match.Teams, team),
			Batting:      make([]scorecard.BattingLine, 0, len(item.Batting)),
			Bowling:      make([]scorecard.BowlingLine, 0, len(item.Bowling)),
		}
		for _, row := range item.Batting {
			inn.Batting = append(inn.Batting, scorecard.BattingLine{
				PlayerID:       strings.TrimSpace(string(row.Batsman.ID)),
				Name:           strings.TrimSpace(row.Batsman.Name),
				Alias:          strings.TrimSpace(row.Batsman.AltName),
				Runs:           row.Runs.Int(),
				Balls:          row.Balls.Int(),
				Fours:          row.Fours.Int(),
				Sixes:          row.Sixes.Int(),
				StrikeRateText: string(row.StrikeRate),
				Dismissal:      strings.TrimSpace(row.DismissalText),
			})
		}
		for _, row := range item.Bowling {
			inn.Bowling = append(inn.Bowling, scorecard.BowlingLine{
				PlayerID:      strings.TrimSpace(string(row.Bowler.ID)),
				Name:          strings.TrimSpace(row.Bowler.Name),
				Alias:         strings.TrimSpace(row.Bowler.AltName),
				OversNotation: float64(row.Overs),
				Maidens:       row.Maidens.Int(),
				RunsConceded:  row.Runs.Int(),
				Wickets:       row.Wickets.Int(),
				EconomyText:   string(row.Economy),
			})
		}
		sc.Innings = append(sc.Innings, inn)
	}
	return sc, nil
}

// fillFieldingTeams completes fielding sides the payload left blank using
// the scorecard's other innings.
func fillFieldingTeams(sc *scorecard.Scorecard) {
	for i := range sc.Innings {
		if sc.Innings[i].FieldingTeam == "" {
			sc.Innings[i].FieldingTeam = sc.FieldingTeamOf(i)
		}
	}
}

// splitInningLabel reads labels such as "India Inning 1".
func splitInningLabel(label string) (string, int) {
	label = strings.TrimSpace(label)
	m := inningSuffixRegex.FindStringSubmatchIndex(label)
	if m == nil {
		return label, 0
	}
	team := strings.TrimSpace(label[:m[0]])
	number := 0
	if m[2] >= 0 {
		number, _ = strconv.Atoi(label[m[2]:m[3]])
	}
	return team, number
}

func otherTeam(teams []string, batting string) string {
	if batting == "" {
		return ""
	}
	for _, team := range teams {
		team = strings.TrimSpace(team)
		if team != "" && !strings.EqualFold(team, batting) {
			return team
		}
	}
	return ""
}

func isCompletedStatus(status string) bool {
	_, ok := completedStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if v := strings.TrimSpace(item); v != "" {
			return v
		}
	}
	return ""
}

type sonicRaw []byte

func (r *sonicRaw) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// flexNumber accepts 12, 12.5, "12", "12.5", "", "-" and null.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	text = strings.TrimSpace(text)
	if text == "" || text == "-" || text == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", text, err)
	}
	*n = flexNumber(v)
	return nil
}

func (n flexNumber) Int() int {
	return int(n)
}

// flexText keeps the textual form of a number or string field.
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		text = strings.TrimSpace(s)
	}
	if text == "-" {
		text = ""
	}
	*t = flexText(text)
	return nil
}

type compactPayload struct {
	MatchID  flexText         `json:"matchId"`
	Format   string           `json:"format"`
	Status   string           `json:"status"`
	Complete *bool            `json:"complete"`
	Innings  []compactInnings `json:"innings"`
}

type compactInnings struct {
	Number   int              `json:"number"`
	Team     string           `json:"team"`
	Opponent string           `json:"opponent"`
	Batting  []compactBatting `json:"batting"`
	Bowling  []compactBowling `json:"bowling"`
}

type compactBatting struct {
	PID        flexText   `json:"pid"`
	Name       string     `json:"name"`
	Alias      string     `json:"alias"`
	Runs       flexNumber `json:"r"`
	Balls      flexNumber `json:"b"`
	Fours      flexNumber `json:"4s"`
	Sixes      flexNumber `json:"6s"`
	StrkRate   flexText   `json:"strkRate"`
	StrikeRate flexText   `json:"strike_rate"`
	Dismissal  string     `json:"dismissal"`
}

type compactBowling struct {
	PID     flexText   `json:"pid"`
	Name    string     `json:"name"`
	Alias   string     `json:"alias"`
	Overs   flexNumber `json:"o"`
	Maidens flexNumber `json:"m"`
	Runs    flexNumber `json:"r"`
	Wickets flexNumber `json:"w"`
	Econ    flexText   `json:"econ"`
	Economy flexText   `json:"economy"`
}

type verbosePayload struct {
	Status string        `json:"status"`
	Data   *verboseMatch `json:"data"`
}

type verboseMatch struct {
	ID         flexText         `json:"id"`
	MatchType  string           `json:"matchType"`
	Status     string           `json:"status"`
	MatchEnded bool             `json:"matchEnded"`
	Teams      []string         `json:"teams"`
	Scorecard  []verboseInnings `json:"scorecard"`
}

type verboseInnings struct {
	Inning  string           `json:"inning"`
	Batting []verboseBatting `json:"batting"`
	Bowling []verboseBowling `json:"bowling"`
}

type verbosePlayer struct {
	ID      flexText `json:"id"`
	Name    string   `json:"name"`
	AltName string   `json:"altName"`
}

type verboseBatting struct {
	Batsman       verbosePlayer `json:"batsman"`
	Runs          flexNumber    `json:"r"`
	Balls         flexNumber    `json:"b"`
	Fours         flexNumber    `json:"4s"`
	Sixes         flexNumber    `json:"6s"`
	StrikeRate    flexText      `json:"sr"`
	DismissalText string        `json:"dismissal-text"`
}

type verboseBowling struct {
	Bowler  verbosePlayer `json:"bowler"`
	Overs   flexNumber    `json:"o"`
	Maidens flexNumber    `json:"m"`
	Runs    flexNumber    `json:"r"`
	Wickets flexNumber    `json:"w"`
	Economy flexText      `json:"eco"`
}
