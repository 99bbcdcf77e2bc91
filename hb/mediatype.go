package hb

// MediaType is the format a bid slot is requested in.
type MediaType string

const (
	MediaTypeVideo       MediaType = "video"
	MediaTypeNative      MediaType = "native"
	MediaTypeUnsupported MediaType = "unsupported"
)

// SupportedMediaTypes lists the formats the exchange can serve.
var SupportedMediaTypes = []MediaType{MediaTypeVideo, MediaTypeNative}

// IsSupportedMediaType reports whether a declared media type is one the exchange serves.
func IsSupportedMediaType(mediaType string) bool {
	for _, supported := range SupportedMediaTypes {
		if string(supported) == mediaType {
			return true
		}
	}
	return false
}
