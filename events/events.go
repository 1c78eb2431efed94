package events

// BetSettled is published after a settlement unit commits, one record per bet
// actually transitioned.
type BetSettled struct {
	BetID     uint   `json:"bet_id"`
	UserID    uint   `json:"user_id"`
	EventID   uint   `json:"event_id"`
	OutcomeID uint   `json:"outcome_id"`
	Status    string `json:"status"`
	Payout    string `json:"payout,omitempty"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
