package postgres

import (
	"time"

	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/matchup"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/playoff"
	"github.com/strideleague/strideleague/internal/domain/scoring"
	"github.com/strideleague/strideleague/internal/domain/user"
	"github.com/strideleague/strideleague/internal/domain/weeklyscore"
)

// Scoring configs persist as JSONB so historical leagues keep scoring under
// whatever config shape they froze, including the legacy workout key.

type leagueRow struct {
	ID                  string     `db:"id"`
	Name                string     `db:"name"`
	JoinCode            string     `db:"join_code"`
	CreatorUserID       string     `db:"creator_user_id"`
	SeasonLength        int        `db:"season_length"`
	CurrentWeek         int        `db:"current_week"`
	StartDate           *time.Time `db:"start_date"`
	Active              bool       `db:"active"`
	PlayoffsStarted     bool       `db:"playoffs_started"`
	ChampionID          *string    `db:"champion_id"`
	MaxPlayers          int        `db:"max_players"`
	EditableConfig      []byte     `db:"editable_config"`
	FrozenConfig        []byte     `db:"frozen_config"`
	LastWeekFinalizedAt *time.Time `db:"last_week_finalized_at"`
	CreatedAt           time.Time  `db:"created_at"`
}

func leagueToRow(l league.League) (leagueRow, error) {
	editable, err := l.EditableConfig.MarshalBytes()
	if err != nil {
		return leagueRow{}, err
	}
	var frozen []byte
	if l.FrozenConfig != nil {
		frozen, err = l.FrozenConfig.MarshalBytes()
		if err != nil {
			return leagueRow{}, err
		}
	}
	return leagueRow{
		ID:                  l.ID,
		Name:                l.Name,
		JoinCode:            l.JoinCode,
		CreatorUserID:       l.CreatorUserID,
		SeasonLength:        l.SeasonLength,
		CurrentWeek:         l.CurrentWeek,
		StartDate:           l.StartDate,
		Active:              l.Active,
		PlayoffsStarted:     l.PlayoffsStarted,
		ChampionID:          l.ChampionID,
		MaxPlayers:          l.MaxPlayers,
		EditableConfig:      editable,
		FrozenConfig:        frozen,
		LastWeekFinalizedAt: l.LastWeekFinalizedAt,
		CreatedAt:           l.CreatedAt,
	}, nil
}

func (r leagueRow) toDomain() (league.League, error) {
	editable, err := scoring.ParseConfig(r.EditableConfig)
	if err != nil {
		return league.League{}, err
	}
	var frozen *scoring.Config
	if len(r.FrozenConfig) > 0 {
		cfg, err := scoring.ParseConfig(r.FrozenConfig)
		if err != nil {
			return league.League{}, err
		}
		frozen = &cfg
	}
	return league.League{
		ID:                  r.ID,
		Name:                r.Name,
		JoinCode:            r.JoinCode,
		CreatorUserID:       r.CreatorUserID,
		SeasonLength:        r.SeasonLength,
		CurrentWeek:         r.CurrentWeek,
		StartDate:           r.StartDate,
		Active:              r.Active,
		PlayoffsStarted:     r.PlayoffsStarted,
		ChampionID:          r.ChampionID,
		MaxPlayers:          r.MaxPlayers,
		EditableConfig:      editable,
		FrozenConfig:        frozen,
		LastWeekFinalizedAt: r.LastWeekFinalizedAt,
		CreatedAt:           r.CreatedAt,
	}, nil
}

type memberRow struct {
	ID               string    `db:"id"`
	LeagueID         string    `db:"league_id"`
	UserID           string    `db:"user_id"`
	Wins             int       `db:"wins"`
	Losses           int       `db:"losses"`
	Ties             int       `db:"ties"`
	TotalPoints      float64   `db:"total_points"`
	PlayoffSeed      int       `db:"playoff_seed"`
	TiebreakerPoints *float64  `db:"tiebreaker_points"`
	Eliminated       bool      `db:"eliminated"`
	IsAdmin          bool      `db:"is_admin"`
	JoinedAt         time.Time `db:"joined_at"`
}

func memberToRow(m member.Member) memberRow {
	return memberRow(m)
}

func (r memberRow) toDomain() member.Member {
	return member.Member(r)
}

type matchupRow struct {
	ID              string     `db:"id"`
	LeagueID        string     `db:"league_id"`
	WeekNumber      int        `db:"week_number"`
	Player1ID       string     `db:"player1_id"`
	Player2ID       string     `db:"player2_id"`
	Player1Score    float64    `db:"player1_score"`
	Player2Score    float64    `db:"player2_score"`
	WinnerID        *string    `db:"winner_id"`
	Tie             bool       `db:"tie"`
	Finalized       bool       `db:"finalized"`
	FinalizedAt     *time.Time `db:"finalized_at"`
	PointsAdded     bool       `db:"points_added"`
	Player1Snapshot float64    `db:"player1_snapshot"`
	Player2Snapshot float64    `db:"player2_snapshot"`
}

func matchupToRow(m matchup.Matchup) matchupRow {
	return matchupRow(m)
}

func (r matchupRow) toDomain() matchup.Matchup {
	return matchup.Matchup(r)
}

type weeklyScoreRow struct {
	ID             string    `db:"id"`
	LeagueID       string    `db:"league_id"`
	UserID         string    `db:"user_id"`
	WeekNumber     int       `db:"week_number"`
	Steps          float64   `db:"steps"`
	SleepHours     float64   `db:"sleep_hours"`
	ActiveCalories float64   `db:"active_calories"`
	WorkoutMinutes float64   `db:"workout_minutes"`
	StandHours     float64   `db:"stand_hours"`
	DistanceMiles  float64   `db:"distance_miles"`
	TotalPoints    float64   `db:"total_points"`
	LastSyncedAt   time.Time `db:"last_synced_at"`
}

func weeklyScoreToRow(ws weeklyscore.WeeklyScore) weeklyScoreRow {
	return weeklyScoreRow{
		ID:             ws.ID,
		LeagueID:       ws.LeagueID,
		UserID:         ws.UserID,
		WeekNumber:     ws.WeekNumber,
		Steps:          ws.Metrics.Steps,
		SleepHours:     ws.Metrics.SleepHours,
		ActiveCalories: ws.Metrics.ActiveCalories,
		WorkoutMinutes: ws.Metrics.WorkoutMinutes,
		StandHours:     ws.Metrics.StandHours,
		DistanceMiles:  ws.Metrics.DistanceMiles,
		TotalPoints:    ws.TotalPoints,
		LastSyncedAt:   ws.LastSyncedAt,
	}
}

func (r weeklyScoreRow) toDomain() weeklyscore.WeeklyScore {
	return weeklyscore.WeeklyScore{
		ID:         r.ID,
		LeagueID:   r.LeagueID,
		UserID:     r.UserID,
		WeekNumber: r.WeekNumber,
		Metrics: scoring.Metrics{
			Steps:          r.Steps,
			SleepHours:     r.SleepHours,
			ActiveCalories: r.ActiveCalories,
			WorkoutMinutes: r.WorkoutMinutes,
			StandHours:     r.StandHours,
			DistanceMiles:  r.DistanceMiles,
		},
		TotalPoints:  r.TotalPoints,
		LastSyncedAt: r.LastSyncedAt,
	}
}

type playoffRow struct {
	ID           string  `db:"id"`
	LeagueID     string  `db:"league_id"`
	Round        int     `db:"round"`
	MatchNumber  int     `db:"match_number"`
	WeekNumber   int     `db:"week_number"`
	Player1ID    string  `db:"player1_id"`
	Player2ID    string  `db:"player2_id"`
	Player1Score float64 `db:"player1_score"`
	Player2Score float64 `db:"player2_score"`
	WinnerID     *string `db:"winner_id"`
	Finalized    bool    `db:"finalized"`
}

func playoffToRow(p playoff.Playoff) playoffRow {
	return playoffRow(p)
}

func (r playoffRow) toDomain() playoff.Playoff {
	return playoff.Playoff(r)
}

type userRow struct {
	ID          string    `db:"id"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
}

func userToRow(u user.User) userRow {
	return userRow(u)
}

func (r userRow) toDomain() user.User {
	return user.User(r)
}
