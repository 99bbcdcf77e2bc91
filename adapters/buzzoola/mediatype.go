package buzzoola

import "github.com/buzzoola/hbrtb/hb"

// mediaType decides which format a slot is requested in. It never fails: slots that
// cannot be classified are hb.MediaTypeUnsupported.
func mediaType(slot *hb.BidSlot) hb.MediaType {
	switch {
	case hb.IsSupportedMediaType(slot.MediaType):
		return hb.MediaType(slot.MediaType)
	case slot.NativeParams != nil:
		return hb.MediaTypeNative
	case slot.Params.IsEmpty():
		return hb.MediaTypeUnsupported
	case slot.Params.Video != nil:
		return hb.MediaTypeVideo
	case slot.Params.Native != nil:
		return hb.MediaTypeNative
	default:
		return hb.MediaTypeUnsupported
	}
}
