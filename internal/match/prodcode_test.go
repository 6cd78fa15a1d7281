package match

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/epmatch/internal/catalog"
	"github.com/vmunix/epmatch/internal/match/mocks"
)

const seriesID = "77398"

func testCache(t *testing.T) *catalog.Cache {
	t.Helper()
	c := catalog.NewCache(filepath.Join(t.TempDir(), "cache.json"))
	c.SetEpisode(seriesID, catalog.EpisodeEntry{
		ProductionCode: "3X22",
		SeasonNumber:   3,
		EpisodeNumber:  22,
		Name:           "Quagmire",
	})
	c.SetEpisode(seriesID, catalog.EpisodeEntry{
		ProductionCode: "6ABX08",
		SeasonNumber:   6,
		EpisodeNumber:  8,
		Name:           "The Rain King",
	})
	c.SetEpisode(seriesID, catalog.EpisodeEntry{
		SeasonNumber:  2,
		EpisodeNumber: 15,
		Name:          "Fresh Bones",
	})
	return c
}

// writeVideo creates a placeholder file of the given size.
func writeVideo(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "episode.mkv")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0}, size), 0o644))
	return path
}

func TestProductionCodeMatcher_FirstCandidateWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockCandidateExtractor(ctrl)
	extractor.EXPECT().
		ExtractCandidates(gomock.Any(), "file.mkv").
		Return([]string{"3X22", "6ABX08"}, nil)

	m := &ProductionCodeMatcher{Extractor: extractor}
	entry, err := m.MatchEpisode(context.Background(), "file.mkv", seriesID, testCache(t))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Quagmire", entry.Name)
}

func TestProductionCodeMatcher_SkipsUnknownCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockCandidateExtractor(ctrl)
	extractor.EXPECT().
		ExtractCandidates(gomock.Any(), gomock.Any()).
		Return([]string{"9ZZZ99", "6abx08"}, nil)

	m := &ProductionCodeMatcher{Extractor: extractor}
	entry, err := m.MatchEpisode(context.Background(), "file.mkv", seriesID, testCache(t))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "The Rain King", entry.Name)
}

func TestProductionCodeMatcher_ExtractionFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockCandidateExtractor(ctrl)
	extractor.EXPECT().
		ExtractCandidates(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("ffmpeg exited 1"))

	m := &ProductionCodeMatcher{Extractor: extractor}
	_, err := m.MatchEpisode(context.Background(), "file.mkv", seriesID, testCache(t))
	assert.Error(t, err)
}

func TestProductionCodeMatcher_NoMatchWithoutThreshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockCandidateExtractor(ctrl)
	extractor.EXPECT().
		ExtractCandidates(gomock.Any(), gomock.Any()).
		Return(nil, nil)

	m := &ProductionCodeMatcher{Extractor: extractor, Prompter: mocks.NewMockPrompter(ctrl)}
	entry, err := m.MatchEpisode(context.Background(), "file.mkv", seriesID, testCache(t))
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestProductionCodeMatcher_NoPromptUnderThreshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	path := writeVideo(t, 100)

	extractor := mocks.NewMockCandidateExtractor(ctrl)
	extractor.EXPECT().
		ExtractCandidates(gomock.Any(), path).
		Return(nil, nil)

	m := &ProductionCodeMatcher{
		Extractor:  extractor,
		Prompter:   mocks.NewMockPrompter(ctrl),
		PromptSize: 1 << 20,
	}
	entry, err := m.MatchEpisode(context.Background(), path, seriesID, testCache(t))
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestProductionCodeMatcher_PromptAcceptsCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	path := writeVideo(t, 2048)

	extractor := mocks.NewMockCandidateExtractor(ctrl)
	extractor.EXPECT().ExtractCandidates(gomock.Any(), path).Return(nil, nil)

	prompter := mocks.NewMockPrompter(ctrl)
	prompter.EXPECT().Line(gomock.Any()).Return("3x22", nil)

	m := &ProductionCodeMatcher{Extractor: extractor, Prompter: prompter, PromptSize: 1024}
	entry, err := m.MatchEpisode(context.Background(), path, seriesID, testCache(t))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Quagmire", entry.Name)
}

func TestProductionCodeMatcher_PromptFallsBackToSeasonEpisode(t *testing.T) {
	ctrl := gomock.NewController(t)
	path := writeVideo(t, 2048)

	extractor := mocks.NewMockCandidateExtractor(ctrl)
	extractor.EXPECT().ExtractCandidates(gomock.Any(), path).Return(nil, nil)

	prompter := mocks.NewMockPrompter(ctrl)
	prompter.EXPECT().Line(gomock.Any()).Return("S02E15", nil)

	m := &ProductionCodeMatcher{Extractor: extractor, Prompter: prompter, PromptSize: 1024}
	entry, err := m.MatchEpisode(context.Background(), path, seriesID, testCache(t))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Fresh Bones", entry.Name)
}

func TestProductionCodeMatcher_PromptLoopsUntilResolvable(t *testing.T) {
	ctrl := gomock.NewController(t)
	path := writeVideo(t, 2048)

	extractor := mocks.NewMockCandidateExtractor(ctrl)
	extractor.EXPECT().ExtractCandidates(gomock.Any(), path).Return(nil, nil)

	prompter := mocks.NewMockPrompter(ctrl)
	gomock.InOrder(
		prompter.EXPECT().Line(gomock.Any()).Return("garbage", nil),
		prompter.EXPECT().Line(gomock.Any()).Return("S09E99", nil),
		prompter.EXPECT().Line(gomock.Any()).Return("", nil),
		prompter.EXPECT().Line(gomock.Any()).Return("6ABX08", nil),
	)

	m := &ProductionCodeMatcher{Extractor: extractor, Prompter: prompter, PromptSize: 1024}
	entry, err := m.MatchEpisode(context.Background(), path, seriesID, testCache(t))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "The Rain King", entry.Name)
}

func TestProductionCodeMatcher_PromptEOFIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	path := writeVideo(t, 2048)

	extractor := mocks.NewMockCandidateExtractor(ctrl)
	extractor.EXPECT().ExtractCandidates(gomock.Any(), path).Return(nil, nil)

	prompter := mocks.NewMockPrompter(ctrl)
	prompter.EXPECT().Line(gomock.Any()).Return("", io.EOF)

	m := &ProductionCodeMatcher{Extractor: extractor, Prompter: prompter, PromptSize: 1024}
	_, err := m.MatchEpisode(context.Background(), path, seriesID, testCache(t))
	assert.ErrorIs(t, err, io.EOF)
}

func TestParseSeasonEpisode(t *testing.T) {
	tests := []struct {
		input   string
		season  int
		episode int
		ok      bool
	}{
		{"S02E15", 2, 15, true},
		{"s2e5", 2, 5, true},
		{"S11E01", 11, 1, true},
		{"s02e15 ", 0, 0, false},
		{"02E15", 0, 0, false},
		{"S111E01", 0, 0, false},
		{"3X22", 0, 0, false},
	}
	for _, tt := range tests {
		season, episode, ok := parseSeasonEpisode(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.season, season)
			assert.Equal(t, tt.episode, episode)
		}
	}
}
