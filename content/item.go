// Package content holds the post model handed to the simulation and a small
// yaml-backed feed used by the bundled hosts.
package content

import (
	"image/color"
	"time"
)

type Sentiment string

const (
	Happy    Sentiment = "happy"
	Sad      Sentiment = "sad"
	Angry    Sentiment = "angry"
	Exciting Sentiment = "exciting"
	Neutral  Sentiment = "neutral"
	Loving   Sentiment = "loving"
)

// Item is a single post. The simulation only reads ID, Text and CreatedAt.
type Item struct {
	ID        string
	Text      string
	CreatedAt time.Time
	Color     color.NRGBA
	Sentiment Sentiment
}

// IDs returns the identities of items in order.
func IDs(items []Item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
