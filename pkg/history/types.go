package history

import (
	"time"

	"github.com/closepro/closepro/pkg/clusters"
	"github.com/closepro/closepro/pkg/llm"
	"github.com/closepro/closepro/pkg/transcript"
)

// IndexVersion is the schema version of the index file.
const IndexVersion = "1.0.0"

// Record is one archived grade.
type Record struct {
	ID           string             `json:"id"`
	Kind         llm.SourceKind     `json:"kind"`
	Source       string             `json:"source,omitempty"`
	ProspectID   string             `json:"prospect_id,omitempty"`
	ProspectName string             `json:"prospect_name,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	Stats        transcript.Stats   `json:"stats"`
	Analysis     llm.AnalysisResult `json:"analysis"`
	Version      string             `json:"version"`
}

// Index is the summary of every record in an archive directory.
type Index struct {
	Records   []IndexedRecord `json:"records"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   string          `json:"version"`
}

// IndexedRecord is the part of a record needed for listings and trends.
type IndexedRecord struct {
	ID              string         `json:"id"`
	Kind            llm.SourceKind `json:"kind"`
	ProspectID      string         `json:"prospect_id,omitempty"`
	ProspectName    string         `json:"prospect_name,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	OverallScore    int            `json:"overall_score"`
	OverallBand     string         `json:"overall_band"`
	Tier            string         `json:"tier,omitempty"`
	WeakestCluster  clusters.ID    `json:"weakest_cluster,omitempty"`
	CapsApplied     []string       `json:"caps_applied"`
	Recommendations []string       `json:"recommendations"`
	Path            string         `json:"path"`
}

// Context is what past sessions say about where the rep should focus.
type Context struct {
	Sessions              int      `json:"sessions"`
	AverageScore          int      `json:"average_score"`
	RecurringCaps         []string `json:"recurring_caps"`
	WeakClusters          []string `json:"weak_clusters"`
	RecentRecommendations []string `json:"recent_recommendations"`
}
