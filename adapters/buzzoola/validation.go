package buzzoola

import (
	"fmt"

	"github.com/buzzoola/hbrtb/errortypes"
	"github.com/buzzoola/hbrtb/hb"
)

// validateSlot checks the required fields of a slot for its media type. The first
// missing or malformed field wins; its message is the rejection reason.
func validateSlot(slot *hb.BidSlot, mediaType hb.MediaType) error {
	params := slot.Params

	switch {
	case params.IsEmpty():
		return badInput("empty bid params")
	case slot.Err() != nil:
		return badInput(slot.Err().Error())
	case params.BidFloor == nil:
		return badInput("bidFloor is required")
	case params.BidFloorCur == nil:
		return badInput("bidFloorCur in bid params is required")
	}

	switch mediaType {
	case hb.MediaTypeVideo:
		return validateVideo(params.Video)
	case hb.MediaTypeNative:
		return nil
	default:
		return badInput(unsupportedMediaTypeReason)
	}
}

func validateVideo(video *hb.VideoParams) error {
	switch {
	case video == nil:
		return badInput("video property in bid params is required for video ad")
	case video.MIMEs == nil:
		return missingVideoField("mimes")
	case video.Protocols == nil:
		return missingVideoField("protocols")
	}
	return nil
}

func missingVideoField(field string) error {
	return badInput(fmt.Sprintf("%s property is required in video object for video ad", field))
}

const unsupportedMediaTypeReason = "unsupported or unknown media type"

func badInput(message string) error {
	return &errortypes.BadInput{Message: message}
}
