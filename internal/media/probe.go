package media

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"
	ffprobe "gopkg.in/vansante/go-ffprobe.v2"
)

// ErrNoSubtitleTrack indicates the file carries no usable English
// subtitle stream.
var ErrNoSubtitleTrack = errors.New("no suitable English subtitle track found")

// SubtitleCodec identifies a subtitle stream encoding.
type SubtitleCodec string

const (
	// CodecSubRip is the text-based SRT codec.
	CodecSubRip SubtitleCodec = "subrip"
	// CodecPGS is the image-based Blu-ray bitmap codec.
	CodecPGS SubtitleCodec = "hdmv_pgs_subtitle"
)

// ImageBased reports whether the codec carries bitmaps instead of text.
func (c SubtitleCodec) ImageBased() bool {
	return c == CodecPGS
}

// Ext returns the container extension used when demuxing the codec.
func (c SubtitleCodec) Ext() string {
	if c == CodecPGS {
		return "sup"
	}
	return "srt"
}

// SubtitleTrack is one subtitle stream in a media file.
type SubtitleTrack struct {
	Index int
	Codec SubtitleCodec
}

// BestSubtitleTrack probes the file's streams and picks the preferred
// subtitle track: English only, text codecs ahead of image codecs.
func BestSubtitleTrack(ctx context.Context, path string) (SubtitleTrack, error) {
	data, err := ffprobe.ProbeURL(ctx, path)
	if err != nil {
		return SubtitleTrack{}, fmt.Errorf("probe streams: %w", err)
	}
	return pickBestTrack(data.StreamType(ffprobe.StreamSubtitle))
}

func pickBestTrack(streams []ffprobe.Stream) (SubtitleTrack, error) {
	var best *SubtitleTrack

	for _, stream := range streams {
		if !isEnglish(stream.Tags.Language) {
			continue
		}

		switch SubtitleCodec(stream.CodecName) {
		case CodecSubRip:
			// Text beats any image track; first hit wins.
			return SubtitleTrack{Index: stream.Index, Codec: CodecSubRip}, nil
		case CodecPGS:
			if best == nil {
				best = &SubtitleTrack{Index: stream.Index, Codec: CodecPGS}
			}
		}
	}

	if best == nil {
		return SubtitleTrack{}, ErrNoSubtitleTrack
	}
	return *best, nil
}

var englishMatcher = language.NewMatcher([]language.Tag{language.English})

// isEnglish matches a stream language tag ("eng", "en-US", ...) against
// English. Untagged streams don't qualify.
func isEnglish(lang string) bool {
	if lang == "" {
		return false
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	_, _, confidence := englishMatcher.Match(tag)
	return confidence >= language.High
}
