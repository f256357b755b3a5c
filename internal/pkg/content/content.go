package content

import (
	"encoding/json"
	"regexp"
	"strings"
)

// placeholderPattern matches inline image tokens like [IMAGE:img-123].
var placeholderPattern = regexp.MustCompile(`\[IMAGE:([^\]]+)\]`)

// ImageRef is one inline image inside an article body. ID is the token
// used in the [IMAGE:<id>] placeholder, Path the public URL returned by
// the upload sink. Width is a display percentage; 0 means 100.
type ImageRef struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Alt   string `json:"alt"`
	Width int    `json:"width,omitempty"`
}

// Envelope is the structured form of an article body: the author's text
// with positional placeholders plus the images they reference.
type Envelope struct {
	Text   string     `json:"text"`
	Images []ImageRef `json:"images"`
}

// Encode serializes text and its inline images into the stored content
// string. The codec is position-agnostic: tokens live wherever the caller
// placed them in text.
func Encode(text string, images []ImageRef) (string, error) {
	if images == nil {
		images = []ImageRef{}
	}
	raw, err := json.Marshal(Envelope{Text: text, Images: images})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Decode parses a stored content string into an Envelope. It never fails:
// anything that is not a well-formed envelope (legacy plain text, corrupt
// JSON, a JSON value of the wrong shape) comes back as the whole content
// string with no images.
func Decode(stored string) Envelope {
	var probe struct {
		Text   *string    `json:"text"`
		Images []ImageRef `json:"images"`
	}
	if err := json.Unmarshal([]byte(stored), &probe); err != nil || probe.Text == nil || probe.Images == nil {
		return Envelope{Text: stored, Images: []ImageRef{}}
	}
	return Envelope{Text: *probe.Text, Images: probe.Images}
}

// AppendImage appends an image placeholder to text, newline-separated so
// the token sits on its own line.
func AppendImage(text, id string) string {
	return text + "\n[IMAGE:" + id + "]\n"
}

// RemoveImage strips the placeholder for id from the envelope text and
// drops the matching ImageRef. Both token variants are handled since
// newline placement differs when the token is the last thing in the text.
func RemoveImage(env Envelope, id string) Envelope {
	text := strings.Replace(env.Text, "[IMAGE:"+id+"]\n", "", 1)
	text = strings.Replace(text, "\n[IMAGE:"+id+"]", "", 1)

	images := make([]ImageRef, 0, len(env.Images))
	for _, img := range env.Images {
		if img.ID != id {
			images = append(images, img)
		}
	}
	return Envelope{Text: text, Images: images}
}

// Excerpt derives a teaser from article text: placeholders stripped,
// trimmed, cut to limit runes, with a trailing ellipsis.
func Excerpt(text string, limit int) string {
	clean := strings.TrimSpace(placeholderPattern.ReplaceAllString(text, ""))
	runes := []rune(clean)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return strings.TrimSpace(string(runes)) + "..."
}

// FirstImagePath returns the featured image for a submission: the path of
// the first inline image, or "" when there are none.
func FirstImagePath(images []ImageRef) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].Path
}

type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentImage
)

// Segment is one renderable piece of an article body: either a text
// paragraph or a resolved inline image.
type Segment struct {
	Kind  SegmentKind
	Text  string
	Image ImageRef
}

// Segments splits envelope text on image placeholders and resolves each
// token against the image list. Tokens with no matching image are dropped
// silently, as are empty and whitespace-only text pieces.
func Segments(env Envelope) []Segment {
	parts := placeholderPattern.Split(env.Text, -1)
	tokens := placeholderPattern.FindAllStringSubmatch(env.Text, -1)

	byID := make(map[string]ImageRef, len(env.Images))
	for _, img := range env.Images {
		byID[img.ID] = img
	}

	var segments []Segment
	appendText := func(part string) {
		if strings.TrimSpace(part) == "" {
			return
		}
		segments = append(segments, Segment{Kind: SegmentText, Text: part})
	}

	for i, part := range parts {
		appendText(part)
		if i < len(tokens) {
			id := tokens[i][1]
			if img, ok := byID[id]; ok {
				if img.Width == 0 {
					img.Width = 100
				}
				segments = append(segments, Segment{Kind: SegmentImage, Image: img})
			}
		}
	}
	return segments
}
