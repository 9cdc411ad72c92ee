package game

// Cue names a sound effect the presentation layer should fire. Cues are
// accumulated during a tick and drained into the next snapshot; the core
// never waits on playback.
type Cue string

const (
	CueServeStart Cue = "serve_start"
	CueSlice      Cue = "slice"
	CueSuccess    Cue = "success"
	CueFail       Cue = "fail"
	CueCash       Cue = "cash"
	CueWarning    Cue = "warning"
	CueGameOver   Cue = "game_over"
	CueClick      Cue = "click"
)
