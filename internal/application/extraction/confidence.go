package extraction

import (
	"math"

	domain "github.com/ronled86/InsuraIQ/internal/domain/extraction"
)

// Confidence model weights and saturation points.  Text length saturates at
// 5000 characters and parameter count at 50; beyond those the terms contribute
// no additional confidence.
const (
	textSaturation  = 5000.0
	paramSaturation = 50.0

	textWeight    = 0.3
	paramWeight   = 0.5
	sectionWeight = 0.2
)

// ScoreConfidence computes the extraction confidence for a merged result and
// stores it, together with the parameter count, on the result.  The returned
// value is always within [0,1], rounded to 2 decimals.
func ScoreConfidence(result *domain.Result, textLen int) float64 {
	params := result.CountParameters()
	result.TotalParameters = params

	textConf := math.Min(float64(textLen)/textSaturation, 1.0)
	paramConf := math.Min(float64(params)/paramSaturation, 1.0)
	sectionConf := float64(result.NonEmptySections()) / float64(len(domain.CanonicalSections))
	if sectionConf > 1.0 {
		sectionConf = 1.0
	}

	conf := textWeight*textConf + paramWeight*paramConf + sectionWeight*sectionConf
	conf = math.Round(conf*100) / 100
	result.Confidence = conf
	return conf
}
