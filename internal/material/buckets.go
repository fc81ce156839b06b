// Package material maps free-text material compositions onto the six
// affinity buckets used by constraint gating and scoring.
package material

import (
	"strings"

	"github.com/thebtf/lookbook/pkg/models"
)

// bucketKeywords maps each bucket to the ingredient keywords that count
// toward it. An ingredient may feed several buckets (cotton is both
// breathable and absorbent).
var bucketKeywords = map[models.MaterialBucket][]string{
	models.BucketBreathable: {
		"cotton", "linen", "bamboo", "lyocell", "tencel", "modal",
		"mesh", "seersucker", "hemp",
	},
	models.BucketInsulating: {
		"wool", "down", "fleece", "cashmere", "alpaca", "mohair",
		"shearling", "thermal", "flannel",
	},
	models.BucketTechnical: {
		"polyester", "nylon", "polyamide", "gore-tex", "goretex",
		"membrane", "softshell", "hardshell", "ripstop", "cordura",
		"primaloft", "neoprene",
	},
	models.BucketRefined: {
		"silk", "cashmere", "merino", "satin", "velvet", "viscose",
		"cupro", "mulberry",
	},
	models.BucketRugged: {
		"denim", "canvas", "leather", "suede", "corduroy", "twill",
		"waxed", "moleskin",
	},
	models.BucketAbsorbent: {
		"cotton", "terry", "towelling", "toweling", "linen", "jersey",
		"sponge",
	},
}

// Shares computes the weight-normalized share of each bucket in an
// item's material mix. Ingredients without percentages are weighted
// equally; an empty composition yields all-zero shares.
func Shares(parts []models.MaterialPart) map[models.MaterialBucket]float64 {
	shares := make(map[models.MaterialBucket]float64, len(models.MaterialBuckets))
	if len(parts) == 0 {
		return shares
	}

	total := 0.0
	for _, p := range parts {
		total += p.Percentage
	}

	for _, p := range parts {
		weight := p.Percentage
		if total <= 0 {
			// No percentages anywhere: treat ingredients as equal parts
			weight = 1.0 / float64(len(parts))
		} else {
			weight = weight / total
		}

		ingredient := strings.ToLower(p.Material)
		for bucket, keywords := range bucketKeywords {
			for _, kw := range keywords {
				if strings.Contains(ingredient, kw) {
					shares[bucket] += weight
					break
				}
			}
		}
	}
	return shares
}

// Share returns a single bucket's share of the item's mix.
func Share(parts []models.MaterialPart, bucket models.MaterialBucket) float64 {
	return Shares(parts)[bucket]
}
