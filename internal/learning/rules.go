package learning

import "github.com/Roma7-7-7/vocab-trainer/internal/config"

const (
	DefaultMasteredInterval       = 10
	DefaultPointsPerLevel         = 100
	DefaultPointsPerCorrectAnswer = 10
)

type Rules struct {
	MasteredInterval       int
	PointsPerLevel         int
	PointsPerCorrectAnswer int
}

func DefaultRules() Rules {
	return Rules{
		MasteredInterval:       DefaultMasteredInterval,
		PointsPerLevel:         DefaultPointsPerLevel,
		PointsPerCorrectAnswer: DefaultPointsPerCorrectAnswer,
	}
}

func NewRules(conf config.Learning) Rules {
	return Rules{
		MasteredInterval:       conf.MasteredInterval,
		PointsPerLevel:         conf.PointsPerLevel,
		PointsPerCorrectAnswer: conf.PointsPerCorrectAnswer,
	}
}

// Level starts at 1 and grows by one every PointsPerLevel points.
func (r Rules) Level(score int) int {
	if score < 0 {
		score = 0
	}
	return score/r.PointsPerLevel + 1
}

func (r Rules) Mastered(interval int) bool {
	return interval > r.MasteredInterval
}
