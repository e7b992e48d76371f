package model

import (
	"math"
	"slices"
)

// Event type names as published by the provider.
const (
	TypePass         = "Pass"
	TypeShot         = "Shot"
	TypeInterception = "Interception"
	TypeClearance    = "Clearance"
	TypePressure     = "Pressure"
	TypeStartingXI   = "Starting XI"
)

// PatternGoalKick tags every event of a possession that started with a goal kick.
const PatternGoalKick = "From Goal Kick"

// OutcomeGoal is the shot outcome of a scored shot.
const OutcomeGoal = "Goal"

// Center-back band of lineup position ids, both bounds exclusive.
const (
	centerBandLow  = 2
	centerBandHigh = 6
)

// IsCenterPosition reports whether a lineup position id lies in the center-back band.
func IsCenterPosition(positionID int) bool {
	return positionID > centerBandLow && positionID < centerBandHigh
}

// Location is a pitch coordinate in provider units (120x80 yards).
type Location struct {
	X, Y float64
}

// FramePlayer is one player position inside a 360 freeze frame.
type FramePlayer struct {
	Teammate bool     `json:"teammate"`
	Actor    bool     `json:"actor"`
	Keeper   bool     `json:"keeper"`
	Location Location `json:"location"`
}

// LineupEntry is one player of a tactics snapshot.
type LineupEntry struct {
	PlayerID     int    `json:"player_id"`
	PlayerName   string `json:"player_name"`
	PositionID   int    `json:"position_id"`
	PositionName string `json:"position_name"`
	JerseyNumber int    `json:"jersey_number"`
}

// Tactics is the lineup snapshot attached to Starting XI and Tactical Shift events.
type Tactics struct {
	Formation int           `json:"formation"`
	Lineup    []LineupEntry `json:"lineup"`
}

// CenterIDs returns the ids of lineup players in the center-back band, in lineup order.
func (t *Tactics) CenterIDs() []int {
	ids := []int{}
	for _, p := range t.Lineup {
		if IsCenterPosition(p.PositionID) {
			ids = append(ids, p.PlayerID)
		}
	}
	return ids
}

// Event is one on-pitch action merged with its optional 360 context.
// Fields below the Derived marker are filled by the preprocessor and KPI engine.
type Event struct {
	ID          string
	MatchID     int
	Index       int
	Period      int
	Timestamp   string
	Minute      int
	Second      int
	Type        string
	PlayPattern string
	TeamID      int
	Team        string
	PlayerID    int // 0 if none
	Player      string
	Position    string
	Location    *Location
	Duration    float64
	Tactics     *Tactics

	PassEndLocation    *Location
	PassOutcome        string // empty for completed passes
	PassRecipient      string
	PassAssistedShotID string
	PassShotAssist     bool
	PassGoalAssist     bool

	ShotXG      float64
	ShotOutcome string

	HasFrame    bool // a 360 record exists for this event
	FreezeFrame []FramePlayer

	// Derived.
	HasCenterIDs  bool
	CenterIDs     []int
	Opponent      string
	EventTime     int
	GoalKickTime  *int
	DeltaGoalKick *int
}

// IsCompletedPass reports whether the event is a pass without a failure outcome.
func (e *Event) IsCompletedPass() bool {
	return e.Type == TypePass && e.PassOutcome == ""
}

// InCenterRoster reports whether the acting player belongs to the event's current center-back roster.
func (e *Event) InCenterRoster() bool {
	if !e.HasCenterIDs || e.PlayerID == 0 {
		return false
	}
	return slices.Contains(e.CenterIDs, e.PlayerID)
}

// Clone returns a copy that shares no mutable slices or pointers with e.
func (e Event) Clone() Event {
	if e.Location != nil {
		l := *e.Location
		e.Location = &l
	}
	if e.PassEndLocation != nil {
		l := *e.PassEndLocation
		e.PassEndLocation = &l
	}
	if e.CenterIDs != nil {
		e.CenterIDs = slices.Clone(e.CenterIDs)
	}
	if e.GoalKickTime != nil {
		v := *e.GoalKickTime
		e.GoalKickTime = &v
	}
	if e.DeltaGoalKick != nil {
		v := *e.DeltaGoalKick
		e.DeltaGoalKick = &v
	}
	return e
}

// ---- Derived KPI tables ----

// TeamMatchKPIs holds the high-level stats of one team in one match.
type TeamMatchKPIs struct {
	MatchID       int
	Team          string
	GoalsScored   int
	GoalsConceded int
	XGScored      float64
	XGConceded    float64
	Shots         int
	Passes        int
	PassAccuracy  float64 // percent, NaN if the team made no passes
	Interceptions int
	Clearances    int
	Possession    float64 // share in [0,1], NaN if both teams have zero duration
}

// CenterEvent is an event by a center-back shortly after an opponent goal kick.
type CenterEvent struct {
	MatchID       int
	Index         int
	Team          string
	PlayerID      int
	Player        string
	CenterIDs     []int
	DeltaGoalKick int
	X, Y          float64
}

// PlayerGoalsXG compares a player's summed expected goals with actual goals.
type PlayerGoalsXG struct {
	Team   string
	Player string
	XG     float64
	Goals  int
}

// PlayerAssistXG is the summed xG of shots assisted by a player's passes.
type PlayerAssistXG struct {
	Team   string
	Player string
	XG     float64
}

// PlayerPassedOpponents is the number of opponents a player bypassed with completed passes.
type PlayerPassedOpponents struct {
	Team            string
	Player          string
	PassedOpponents int
}

// Results bundles every table produced by one pipeline run.
type Results struct {
	Events          []Event
	KPIs            []TeamMatchKPIs
	CenterEvents    []CenterEvent
	GoalsXG         []PlayerGoalsXG
	AssistsXG       []PlayerAssistXG
	PassedOpponents []PlayerPassedOpponents
}

// Ratio divides num by den and returns NaN for a zero denominator.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// RunSummary is a lightweight record of a stored pipeline run for list/show commands.
type RunSummary struct {
	RunKey      string
	RunID       string
	Competition string
	Season      string
	Cutoff      string
	CreatedAt   string
	Matches     int
	Events      int
	SkippedRows int
}
