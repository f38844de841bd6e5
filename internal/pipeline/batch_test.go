package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"docextract/internal/extraction"
	"docextract/internal/pipeline/mocks"
)

func TestBatch_IsolatesFailures(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	f.expectEmbeddings()
	f.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", nil).AnyTimes()

	good1 := mocks.NewMockTextSource(ctrl)
	good1.EXPECT().Pages(gomock.Any()).Return(studentPages(3), nil)
	blank := mocks.NewMockTextSource(ctrl)
	blank.EXPECT().Pages(gomock.Any()).Return([]string{" "}, nil)
	good2 := mocks.NewMockTextSource(ctrl)
	good2.EXPECT().Pages(gomock.Any()).Return(studentPages(6), nil)

	profile := studentsProfile(t)
	reqs := []Request{
		{Document: "a.pdf", Source: good1, Profile: profile},
		{Document: "b.pdf", Source: blank, Profile: profile},
		{Document: "c.pdf", Source: good2, Profile: profile},
	}

	results := f.pipeline(Options{}).Batch(context.Background(), reqs, 2)
	require.Len(t, results, 3)

	assert.Equal(t, "a.pdf", results[0].Document)
	require.NoError(t, results[0].Err)
	assert.Len(t, results[0].Result.Records, 3)

	assert.Equal(t, "b.pdf", results[1].Document)
	assert.ErrorIs(t, results[1].Err, extraction.ErrNoContent)
	assert.Equal(t, StateFailed, results[1].Result.State())

	assert.Equal(t, "c.pdf", results[2].Document)
	require.NoError(t, results[2].Err)
	assert.Len(t, results[2].Result.Records, 6)

	assert.NotEqual(t, results[0].Result.RunID, results[2].Result.RunID)
}

func TestBatch_Empty(t *testing.T) {
	f := newFixture(t)
	results := f.pipeline(Options{}).Batch(context.Background(), nil, 0)
	assert.Empty(t, results)
}
