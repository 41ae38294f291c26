package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Roma7-7-7/vocab-trainer/internal/config"
)

func TestRules_Level(t *testing.T) {
	r := DefaultRules()

	assert.Equal(t, 1, r.Level(0))
	assert.Equal(t, 1, r.Level(30))
	assert.Equal(t, 1, r.Level(99))
	assert.Equal(t, 2, r.Level(100))
	assert.Equal(t, 2, r.Level(199))
	assert.Equal(t, 11, r.Level(1000))
	assert.Equal(t, 1, r.Level(-10))

	prev := r.Level(0)
	for score := 1; score <= 1000; score++ {
		lvl := r.Level(score)
		assert.GreaterOrEqual(t, lvl, prev)
		prev = lvl
	}
}

func TestRules_CorrectAnswers(t *testing.T) {
	r := DefaultRules()

	score := 0
	for range 3 {
		score += r.PointsPerCorrectAnswer
	}
	assert.Equal(t, 30, score)
	assert.Equal(t, 1, r.Level(score))

	for range 7 {
		score += r.PointsPerCorrectAnswer
	}
	assert.Equal(t, 100, score)
	assert.Equal(t, 2, r.Level(score))
}

func TestRules_Mastered(t *testing.T) {
	r := DefaultRules()

	assert.False(t, r.Mastered(1))
	assert.False(t, r.Mastered(10))
	assert.True(t, r.Mastered(11))
}

func TestNewRules(t *testing.T) {
	r := NewRules(config.Learning{MasteredInterval: 5, PointsPerLevel: 50, PointsPerCorrectAnswer: 5})

	assert.Equal(t, 2, r.Level(50))
	assert.True(t, r.Mastered(6))
	assert.Equal(t, 5, r.PointsPerCorrectAnswer)
}
