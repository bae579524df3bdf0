package videoservice

import (
	"errors"

	"github.com/starford/exvids/internal/apperr"
	"github.com/starford/exvids/internal/videoref"
)

// User-facing messages.
const (
	MsgInvalidURL = "Invalid YouTube URL"
	MsgDuplicate  = "You already added that video"
	MsgCheckInput = "Please check the data entered"
	MsgNotFound   = "Video not found"
	MsgInternal   = "Something went wrong, please try again"
)

// ReasonMessage explains a rejection reason to a user.
func ReasonMessage(r videoref.Reason) string {
	switch r {
	case videoref.ReasonNotExpectedHost:
		return "Not a YouTube watch URL. Links must look like " + videoref.Example
	case videoref.ReasonMissingQuery:
		return "The link has no query string, so it carries no video id"
	case videoref.ReasonMalformedQuery:
		return "The query string of the link is malformed"
	case videoref.ReasonMissingIdentifierParameter:
		return "The link has no video id in its v= parameter"
	default:
		return MsgInvalidURL
	}
}

// Message maps any error returned by Service to a stable user-facing message.
func Message(err error) string {
	if reason, ok := videoref.ReasonOf(err); ok {
		return MsgInvalidURL + ": " + ReasonMessage(reason)
	}
	switch {
	case errors.Is(err, apperr.ErrAlreadyExists):
		return MsgDuplicate
	case errors.Is(err, apperr.ErrInvalid):
		return MsgCheckInput
	case errors.Is(err, apperr.ErrNotFound):
		return MsgNotFound
	default:
		return MsgInternal
	}
}
