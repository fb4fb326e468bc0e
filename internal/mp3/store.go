package mp3

import (
	"strings"

	"github.com/bogem/id3v2/v2"
)

const commentID = "COMM"

// frameStore exposes the text and comment frames of an ID3v2 tag as a
// keymap.Store. Multiple values share one frame, separated by NUL as
// ID3v2.4 specifies.
type frameStore struct {
	tag *id3v2.Tag
}

func (s *frameStore) encoding() id3v2.Encoding {
	if s.tag.Version() == 4 {
		return id3v2.EncodingUTF8
	}
	return id3v2.EncodingUTF16
}

func (s *frameStore) Values(key string) []string {
	var out []string
	for _, f := range s.tag.GetFrames(key) {
		switch fr := f.(type) {
		case id3v2.TextFrame:
			out = append(out, splitValues(fr.Text)...)
		case id3v2.CommentFrame:
			if fr.Description == "" {
				out = append(out, splitValues(fr.Text)...)
			}
		}
	}
	return out
}

func (s *frameStore) Set(key string, values ...string) {
	if key == commentID {
		s.setComment(values)
		return
	}
	s.tag.DeleteFrames(key)
	if len(values) == 0 {
		return
	}
	s.tag.AddTextFrame(key, s.encoding(), strings.Join(values, "\x00"))
}

// setComment replaces the description-less comment and keeps the others,
// which players use for private data.
func (s *frameStore) setComment(values []string) {
	keep := keepFrames(s.tag, commentID, func(f id3v2.Framer) bool {
		cf, ok := f.(id3v2.CommentFrame)
		return ok && cf.Description != ""
	})
	if len(values) > 0 {
		s.tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding: s.encoding(),
			Language: "eng",
			Text:     strings.Join(values, "\x00"),
		})
	}
	for _, f := range keep {
		s.tag.AddFrame(commentID, f)
	}
}

func (s *frameStore) Add(key, value string) {
	s.Set(key, append(s.Values(key), value)...)
}

func (s *frameStore) Delete(key string) {
	if key == commentID {
		s.setComment(nil)
		return
	}
	s.tag.DeleteFrames(key)
}

// keepFrames deletes every frame with the given id and returns those
// matching keep, for the caller to add back.
func keepFrames(tag *id3v2.Tag, id string, keep func(id3v2.Framer) bool) []id3v2.Framer {
	var kept []id3v2.Framer
	for _, f := range tag.GetFrames(id) {
		if keep(f) {
			kept = append(kept, f)
		}
	}
	tag.DeleteFrames(id)
	return kept
}

func splitValues(text string) []string {
	var out []string
	for _, v := range strings.Split(text, "\x00") {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
