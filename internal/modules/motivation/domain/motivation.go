package domain

import "errors"

// FallbackMessage replaces anything the provider fails to deliver. It is
// the only text the timer ever shows when the provider is missing, slow,
// or broken.
const FallbackMessage = "You're doing great, keep it up!"

var ErrProviderTimeout = errors.New("motivation provider timed out")

// Request describes where the user is in their focus session.
type Request struct {
	SessionProgress float64 // percent, 0-100
	TimeRemaining   int     // seconds
}

type Message struct {
	Text string
}
