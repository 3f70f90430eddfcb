package domain

// Category is the detected kind of inbound message.
type Category string

const (
	CategoryMeeting     Category = "meeting"
	CategoryDeadline    Category = "deadline"
	CategoryQuestion    Category = "question"
	CategoryRequest     Category = "request"
	CategoryInformation Category = "information"
	CategorySocial      Category = "social"
)

// Source records which classifier produced a result. The UI shows it as a
// neutral badge; a heuristic result is never an error condition.
type Source string

const (
	SourceLLM       Source = "llm"
	SourceHeuristic Source = "heuristic"
)

// EventDetails is extracted when a message implies a calendar entry.
type EventDetails struct {
	Title    string `json:"title"`
	Date     string `json:"date"` // YYYY-MM-DD
	Time     string `json:"time"` // HH:MM
	Location string `json:"location"`
}

// ClassificationResult is produced fresh per classification call and lives
// only for the duration of the review step; it is never persisted.
//
// Invariants: EventDetails is non-nil iff IsEvent; Deadline is non-empty
// iff HasDeadline.
type ClassificationResult struct {
	Reply          string        `json:"reply"`
	Tone           string        `json:"tone"` // professional|casual|urgent|friendly|formal
	IsEvent        bool          `json:"isEvent"`
	EventDetails   *EventDetails `json:"eventDetails,omitempty"`
	HasDeadline    bool          `json:"hasDeadline"`
	Deadline       string        `json:"deadline,omitempty"` // YYYY-MM-DD
	TaskSuggestion string        `json:"taskSuggestion"`
	Priority       string        `json:"priority"` // high|medium|low
	Category       Category      `json:"category"`
	Source         Source        `json:"source,omitempty"`
}
