// Package hb defines the header-bidding shapes exchanged with the host auction framework:
// the bid slots and auction context coming in, and the outcomes going back out.
package hb
