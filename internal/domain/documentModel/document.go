package documentModel

// Document is the canonical record written to the search index. It is
// constructed once per downloaded resource, validated by the indexing client
// and never mutated afterwards.
type Document struct {
	ID            string
	BenchmarkID   string
	Title         string
	Description   string
	Type          string
	Objectives    string
	Materials     string
	Files         string //flattened description string, never a list
	Text          string
	Embedding     []float32
	GradeLevels   string
	SubjectAreas  string
	Audience      string
	ResourceURL   string
	PublishedDate string
}

// Payload renders the document as an index payload, pruning empty fields.
// The embedding vector travels separately from the payload.
func (d Document) Payload() map[string]any {
	payload := make(map[string]any, 14)
	put := func(key, value string) {
		if value != "" {
			payload[key] = value
		}
	}
	put("id", d.ID)
	put("benchmarkId", d.BenchmarkID)
	put("title", d.Title)
	put("description", d.Description)
	put("type", d.Type)
	put("objectives", d.Objectives)
	put("materials", d.Materials)
	put("files", d.Files)
	put("text", d.Text)
	put("grade_levels", d.GradeLevels)
	put("subject_areas", d.SubjectAreas)
	put("audience", d.Audience)
	put("resource_url", d.ResourceURL)
	put("published_date", d.PublishedDate)
	return payload
}

// Match is one vector-search hit returned by the indexing client.
type Match struct {
	ID          string  `json:"id"`
	Score       float32 `json:"score"`
	BenchmarkID string  `json:"benchmark_id,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	ResourceURL string  `json:"resource_url,omitempty"`
}
