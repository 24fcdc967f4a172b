package reward

import "Sistem-Reward-Venue/models"

// OutcomeKind adalah hasil terminal satu decode event. Presentation layer
// yang memutuskan format dan bahasa pesannya, bukan engine.
type OutcomeKind string

const (
	OutcomeSuccess          OutcomeKind = "success"
	OutcomeAlreadyRedeemed  OutcomeKind = "already_redeemed"
	OutcomeInvalidPayload   OutcomeKind = "invalid_payload"
	OutcomeVenueNotFound    OutcomeKind = "venue_not_found"
	OutcomeVenueInactive    OutcomeKind = "venue_inactive"
	OutcomeTransientFailure OutcomeKind = "transient_failure"
	OutcomeHardFailure      OutcomeKind = "hard_failure"
)

type Progress struct {
	Current  int  `json:"current"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
}

type Outcome struct {
	Kind        OutcomeKind
	Points      int
	Collectible *models.Collectible
	IsNew       bool
	Progress    *Progress
	Message     string
	Err         error
}

// InputError: salah input dari user/QR, scanner boleh resume otomatis
// setelah cooldown singkat.
func (o Outcome) InputError() bool {
	switch o.Kind {
	case OutcomeInvalidPayload, OutcomeVenueNotFound, OutcomeVenueInactive:
		return true
	}
	return false
}

// NeedsAck: bukan error, tapi terminal dan butuh dismissal eksplisit dari
// user sebelum scanner jalan lagi (kode yang sama masih terlihat kamera).
func (o Outcome) NeedsAck() bool {
	return o.Kind == OutcomeAlreadyRedeemed
}

func (o Outcome) Transient() bool {
	return o.Kind == OutcomeTransientFailure
}

func invalidPayload(msg string) Outcome {
	return Outcome{Kind: OutcomeInvalidPayload, Message: msg}
}

func transient(err error) Outcome {
	return Outcome{Kind: OutcomeTransientFailure, Err: err}
}
