package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

func TestSimple_Dedupes(t *testing.T) {
	b := model.NewBallot("1", []model.Choice{model.Vote(1), model.Vote(1), model.Vote(2)})
	nb := Simple(b)
	assert.Equal(t, []model.CandidateID{1, 2}, nb.Choices)
	assert.False(t, nb.Overvoted)
}

func TestSimple_StopsAtOvervote(t *testing.T) {
	b := model.NewBallot("1", []model.Choice{model.Vote(1), model.Overvote(), model.Vote(2)})
	nb := Simple(b)
	assert.Equal(t, []model.CandidateID{1}, nb.Choices)
	assert.True(t, nb.Overvoted)
}

func TestSimple_UndervoteOnlyIsKeptEmpty(t *testing.T) {
	b := model.NewBallot("1", []model.Choice{model.Undervote(), model.Undervote()})
	nb := Simple(b)
	assert.Empty(t, nb.Choices)
	assert.False(t, nb.Overvoted)
}

func TestSimple_SkipsIsolatedUndervotes(t *testing.T) {
	b := model.NewBallot("1", []model.Choice{model.Vote(1), model.Undervote(), model.Vote(2)})
	nb := Simple(b)
	assert.Equal(t, []model.CandidateID{1, 2}, nb.Choices)
}
