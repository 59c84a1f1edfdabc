package fetch

import (
	"github.com/polyrabbit/coin-dashboard/market"
)

type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "unknown"
}

type FailureKind int

const (
	TransportFailure FailureKind = iota + 1
	StatusFailure
	MalformedResponse
)

func (k FailureKind) String() string {
	switch k {
	case TransportFailure:
		return "transport"
	case StatusFailure:
		return "status"
	case MalformedResponse:
		return "malformed response"
	}
	return "unknown"
}

// StatusFailureMessage is all a user gets to see for a non-2xx response.
const StatusFailureMessage = "Failed to fetch data"

type Failure struct {
	Kind    FailureKind
	Message string
}

// State is a snapshot of one controller. Coins holds the last successful
// result and survives later loading and error states. Failure is set only
// when Status is Error.
type State struct {
	Status  Status
	URL     string
	Coins   []market.Coin
	Failure *Failure
}

func (s State) ErrorMessage() string {
	if s.Failure == nil {
		return ""
	}
	return s.Failure.Message
}
