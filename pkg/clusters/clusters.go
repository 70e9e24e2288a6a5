// Package clusters rolls the ten scoring categories up into six skill
// clusters for display.
package clusters

import (
	"math"
	"sort"
	"strings"

	"github.com/closepro/closepro/pkg/rubric"
)

// ID identifies a skill cluster.
type ID string

const (
	LeadershipStructure ID = "leadership_structure"
	DiscoveryUrgency    ID = "discovery_urgency"
	ValueCommunication  ID = "value_communication"
	ObjectionMastery    ID = "objection_mastery"
	ClosingCommitment   ID = "closing_commitment"
	EmotionalDelivery   ID = "emotional_delivery"
)

// Cluster is a named group of categories.
type Cluster struct {
	ID      ID
	Label   string
	Members []rubric.Category
}

// clusterTable is the fixed membership. Every category belongs to exactly one
// cluster.
//
//nolint:gochecknoglobals // Cluster configuration constants
var clusterTable = []Cluster{
	{
		ID:      LeadershipStructure,
		Label:   "Leadership & Structure",
		Members: []rubric.Category{rubric.CategoryAuthorityLeadership, rubric.CategoryStructureFramework},
	},
	{
		ID:      DiscoveryUrgency,
		Label:   "Discovery & Urgency",
		Members: []rubric.Category{rubric.CategoryDiscoveryDiagnosis, rubric.CategoryGapUrgency},
	},
	{
		ID:      ValueCommunication,
		Label:   "Value & Communication",
		Members: []rubric.Category{rubric.CategoryValueOfferPositioning, rubric.CategoryCommunicationStorytelling},
	},
	{
		ID:      ObjectionMastery,
		Label:   "Objection Mastery",
		Members: []rubric.Category{rubric.CategoryObjectionHandling},
	},
	{
		ID:      ClosingCommitment,
		Label:   "Closing & Commitment",
		Members: []rubric.Category{rubric.CategoryClosingCommitment},
	},
	{
		ID:      EmotionalDelivery,
		Label:   "Emotional Intelligence & Delivery",
		Members: []rubric.Category{rubric.CategoryEmotionalIntelligence, rubric.CategoryTonalityDelivery},
	},
}

// legacyAliases maps the short ids used by older dashboard code onto the
// canonical categories. "trust" and "adaptation" have no lexical match and
// are mapped by meaning.
//
//nolint:gochecknoglobals // Cluster configuration constants
var legacyAliases = map[string]rubric.Category{
	"authority":          rubric.CategoryAuthorityLeadership,
	"structure":          rubric.CategoryStructureFramework,
	"discovery":          rubric.CategoryDiscoveryDiagnosis,
	"gap":                rubric.CategoryGapUrgency,
	"value":              rubric.CategoryValueOfferPositioning,
	"communication":      rubric.CategoryCommunicationStorytelling,
	"objection_handling": rubric.CategoryObjectionHandling,
	"closing":            rubric.CategoryClosingCommitment,
	"trust":              rubric.CategoryEmotionalIntelligence,
	"adaptation":         rubric.CategoryTonalityDelivery,
}

// CategoryScore is one member's contribution to a cluster.
type CategoryScore struct {
	CategoryID rubric.Category `json:"category_id"`
	Score      float64         `json:"score"`
}

// ClusterScore is the aggregated score of one cluster.
type ClusterScore struct {
	ClusterID ID              `json:"cluster_id"`
	Label     string          `json:"label"`
	Score     int             `json:"score"`
	Breakdown []CategoryScore `json:"breakdown"`
}

// Result is the output of ComputeClusterScores.
type Result struct {
	Clusters []ClusterScore `json:"clusters"`
	// Unrecognized lists input keys that matched neither a canonical
	// category nor a legacy alias. They do not contribute to any cluster.
	Unrecognized []string `json:"unrecognized,omitempty"`
}

// Clusters returns the cluster table.
func Clusters() (clusters []Cluster) {
	clusters = make([]Cluster, len(clusterTable))
	for i, c := range clusterTable {
		clusters[i] = Cluster{ID: c.ID, Label: c.Label, Members: append([]rubric.Category(nil), c.Members...)}
	}
	return clusters
}

// NormalizeCategoryID maps a canonical id or a legacy alias to a category.
func NormalizeCategoryID(raw string) (category rubric.Category, ok bool) {
	key := strings.ToLower(strings.TrimSpace(raw))

	category = rubric.Category(key)
	if category.Valid() {
		ok = true
		return category, ok
	}

	category, ok = legacyAliases[key]
	return category, ok
}

// ComputeClusterScores averages the positive member scores of each cluster
// and rounds to the nearest integer. A cluster with no positive members
// scores 0. When both a canonical id and its legacy alias are present, the
// canonical value is used.
func ComputeClusterScores(categoryScores map[string]float64) (result Result) {
	canonical := make(map[rubric.Category]float64, len(categoryScores))
	fromAlias := make(map[rubric.Category]float64)
	result.Unrecognized = []string{}

	for raw, score := range categoryScores {
		category, ok := NormalizeCategoryID(raw)
		if !ok {
			result.Unrecognized = append(result.Unrecognized, raw)
			continue
		}
		if rubric.Category(strings.ToLower(strings.TrimSpace(raw))) == category {
			canonical[category] = score
			continue
		}
		fromAlias[category] = score
	}
	sort.Strings(result.Unrecognized)

	for category, score := range fromAlias {
		if _, seen := canonical[category]; !seen {
			canonical[category] = score
		}
	}

	result.Clusters = make([]ClusterScore, 0, len(clusterTable))
	for _, c := range clusterTable {
		cs := ClusterScore{ClusterID: c.ID, Label: c.Label, Breakdown: []CategoryScore{}}

		sum := 0.0
		for _, member := range c.Members {
			score, present := canonical[member]
			if !present || score <= 0 {
				continue
			}
			cs.Breakdown = append(cs.Breakdown, CategoryScore{CategoryID: member, Score: score})
			sum += score
		}

		if n := len(cs.Breakdown); n > 0 {
			cs.Score = int(math.Round(sum / float64(n)))
		}
		result.Clusters = append(result.Clusters, cs)
	}

	return result
}

// ComputeFromCategories is ComputeClusterScores for callers that already
// hold canonical categories.
func ComputeFromCategories(scores map[rubric.Category]float64) (result Result) {
	raw := make(map[string]float64, len(scores))
	for c, v := range scores {
		raw[string(c)] = v
	}
	result = ComputeClusterScores(raw)
	return result
}

// Score returns the score of one cluster from a result.
func (r Result) Score(id ID) (score int, ok bool) {
	for _, c := range r.Clusters {
		if c.ClusterID == id {
			score = c.Score
			ok = true
			return score, ok
		}
	}
	return score, ok
}
