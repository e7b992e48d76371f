package statsbomb

// Named is the {id, name} pair the provider uses for every categorical field.
type Named struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Competition is one competition/season entry of competitions.json.
type Competition struct {
	CompetitionID   int    `json:"competition_id"`
	SeasonID        int    `json:"season_id"`
	CountryName     string `json:"country_name"`
	CompetitionName string `json:"competition_name"`
	SeasonName      string `json:"season_name"`
}

// Match holds the fields we need from matches/<competition>/<season>.json.
type Match struct {
	MatchID   int    `json:"match_id"`
	MatchDate string `json:"match_date"` // "YYYY-MM-DD"
	KickOff   string `json:"kick_off"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	HomeTeam  struct {
		Name string `json:"home_team_name"`
	} `json:"home_team"`
	AwayTeam struct {
		Name string `json:"away_team_name"`
	} `json:"away_team"`
	CompetitionStage Named `json:"competition_stage"`
}

// LineupPlayer is one entry of a tactics lineup.
type LineupPlayer struct {
	Player       Named `json:"player"`
	Position     Named `json:"position"`
	JerseyNumber int   `json:"jersey_number"`
}

// Tactics is the formation snapshot on Starting XI and Tactical Shift events.
type Tactics struct {
	Formation int            `json:"formation"`
	Lineup    []LineupPlayer `json:"lineup"`
}

// Pass holds the pass-specific attributes of an event.
type Pass struct {
	Recipient      *Named `json:"recipient"`
	EndLocation    []any  `json:"end_location"`
	Outcome        *Named `json:"outcome"`
	AssistedShotID string `json:"assisted_shot_id"`
	ShotAssist     bool   `json:"shot_assist"`
	GoalAssist     bool   `json:"goal_assist"`
}

// Shot holds the shot-specific attributes of an event.
type Shot struct {
	StatsbombXG float64 `json:"statsbomb_xg"`
	Outcome     *Named  `json:"outcome"`
}

// Event is one raw entry of events/<match_id>.json. Locations are kept untyped
// so that malformed coordinates can be detected and the row skipped.
type Event struct {
	ID          string   `json:"id"`
	Index       int      `json:"index"`
	Period      int      `json:"period"`
	Timestamp   string   `json:"timestamp"`
	Minute      int      `json:"minute"`
	Second      int      `json:"second"`
	Type        Named    `json:"type"`
	PlayPattern Named    `json:"play_pattern"`
	Team        Named    `json:"team"`
	Player      *Named   `json:"player"`
	Position    *Named   `json:"position"`
	Location    []any    `json:"location"`
	Duration    float64  `json:"duration"`
	Tactics     *Tactics `json:"tactics"`
	Pass        *Pass    `json:"pass"`
	Shot        *Shot    `json:"shot"`
}

// FramePlayer is one player position in a 360 freeze frame.
type FramePlayer struct {
	Teammate bool  `json:"teammate"`
	Actor    bool  `json:"actor"`
	Keeper   bool  `json:"keeper"`
	Location []any `json:"location"`
}

// Frame is one entry of a three-sixty/<match_id>.json file.
type Frame struct {
	EventUUID   string        `json:"event_uuid"`
	VisibleArea []float64     `json:"visible_area"`
	FreezeFrame []FramePlayer `json:"freeze_frame"`
}
