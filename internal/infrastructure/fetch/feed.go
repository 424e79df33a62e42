package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

type rssXML struct {
	Channel channelXML `xml:"channel"`
}

type channelXML struct {
	Title string    `xml:"title"`
	Items []itemXML `xml:"item"`
}

type itemXML struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

// fetchFeed downloads an RSS feed and flattens its entries into one text
// block, one "title - description" paragraph per entry, so the extraction
// stage can treat feed and page sources uniformly.
func (f *TextFetcher) fetchFeed(ctx context.Context, feedURL string) (string, error) {
	resp, err := f.get(ctx, feedURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var rss rssXML
	if err := xml.NewDecoder(resp.Body).Decode(&rss); err != nil {
		return "", fmt.Errorf("decode feed: %w", err)
	}

	var b strings.Builder
	for _, item := range rss.Channel.Items {
		title := strings.TrimSpace(item.Title)
		desc := strings.TrimSpace(item.Description)
		switch {
		case title == "" && desc == "":
			continue
		case desc == "":
			fmt.Fprintf(&b, "%s\n\n", title)
		default:
			fmt.Fprintf(&b, "%s - %s\n\n", title, desc)
		}
	}

	return strings.TrimSpace(b.String()), nil
}
