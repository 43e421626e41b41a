package syndication

import "encoding/json"

// Post is the subset of the tweet-result payload the preview needs.
type Post struct {
	IDStr     string     `json:"id_str"`
	Text      string     `json:"text"`
	CreatedAt string     `json:"created_at"`
	User      User       `json:"user"`
	Photos    []Photo    `json:"photos"`
	Video     *Video     `json:"video"`
	Birdwatch *Birdwatch `json:"birdwatch_pivot"`
}

// User is the post author.
type User struct {
	Name           string `json:"name"`
	ScreenName     string `json:"screen_name"`
	Verified       bool   `json:"verified"`
	IsBlueVerified bool   `json:"is_blue_verified"`
	VerifiedType   string `json:"verified_type"`
}

// Photo is one attached image.
type Photo struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Video holds the playable renditions of an attached video.
type Video struct {
	Poster   string         `json:"poster"`
	Variants []VideoVariant `json:"variants"`
}

// VideoVariant is one rendition; Type is its MIME type.
type VideoVariant struct {
	Type string `json:"type"`
	Src  string `json:"src"`
}

// Birdwatch is the community-note block.
type Birdwatch struct {
	Title    string   `json:"title"`
	Subtitle NoteText `json:"subtitle"`
}

// NoteText accepts either a bare string or an object carrying a "text"
// field; the endpoint has served both shapes.
type NoteText string

// UnmarshalJSON implements json.Unmarshaler.
func (t *NoteText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = NoteText(s)
		return nil
	}

	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*t = NoteText(obj.Text)
	return nil
}
