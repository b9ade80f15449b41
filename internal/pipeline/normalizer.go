package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/akolanti/LessonIndexer/internal/domain/documentModel"
	"github.com/akolanti/LessonIndexer/internal/domain/resourceModel"
	"github.com/akolanti/LessonIndexer/internal/embedding"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

// Tags are stripped textually and non-greedily; this is not an HTML parse.
var htmlTagPattern = regexp.MustCompile(`<.*?>`)

func CleanHTML(s string) string {
	stripped := htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(strings.Join(strings.Fields(stripped), " "))
}

type Outcome int

const (
	OutcomeOk Outcome = iota
	OutcomeDegraded
	OutcomeSkip
)

// NormalizeResult is the tagged outcome of document preparation. Degraded
// carries a best-effort document; Skip carries only the reason.
type NormalizeResult struct {
	Outcome Outcome
	Doc     documentModel.Document
	Reason  string
}

// Normalizer maps a downloaded record to the canonical document shape,
// embedding included. It never panics past PrepareDocument.
type Normalizer struct {
	generator *embedding.Generator
	logger    *logger_i.Logger
}

func NewNormalizer(generator *embedding.Generator) *Normalizer {
	return &Normalizer{
		generator: generator,
		logger:    logger_i.NewLogger("Normalizer"),
	}
}

// PrimaryBenchmark picks the benchmark code a file indexes under: the first
// comma-separated entry of the record's own codes when present, otherwise the
// folder the file was found in.
func PrimaryBenchmark(record resourceModel.Record, folderBenchmarkID string) string {
	if structured, ok := record.(resourceModel.StructuredResource); ok {
		codes := structured.BenchmarkCodes
		if codes == "" {
			codes = structured.BenchmarkIDs
		}
		if first := strings.TrimSpace(strings.Split(codes, ",")[0]); first != "" {
			return first
		}
	}
	return folderBenchmarkID
}

// DocumentID is the idempotency key for upserts: re-indexing the same
// resource overwrites instead of duplicating.
func DocumentID(benchmarkID string, resourceID string) string {
	return strings.ReplaceAll(benchmarkID, ".", "_") + "_" + resourceID
}

// PrepareDocument builds exactly one document per record. Data problems
// degrade to a minimal fallback document rather than escaping; only a record
// with no derivable identity is skipped.
func (n *Normalizer) PrepareDocument(ctx context.Context, record resourceModel.Record, locator resourceModel.FileLocator) (result NormalizeResult) {
	benchmarkID := PrimaryBenchmark(record, locator.BenchmarkID)
	resourceID := locator.ResourceID
	if structured, ok := record.(resourceModel.StructuredResource); ok && structured.ResourceID != "" {
		resourceID = structured.ResourceID.String()
	}
	if benchmarkID == "" || resourceID == "" {
		return NormalizeResult{Outcome: OutcomeSkip, Reason: "no derivable document id"}
	}

	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("document preparation panicked, degrading", "path", locator.Path, "panic", fmt.Sprint(r))
			result = n.degrade(record, benchmarkID, resourceID)
		}
	}()

	switch rec := record.(type) {
	case resourceModel.StructuredResource:
		return n.prepareStructured(ctx, rec, benchmarkID, resourceID)
	case resourceModel.FallbackResource:
		return n.prepareFallback(ctx, rec, benchmarkID, resourceID)
	}
	return NormalizeResult{Outcome: OutcomeSkip, Reason: "unknown record variant"}
}

func (n *Normalizer) prepareStructured(ctx context.Context, rec resourceModel.StructuredResource, benchmarkID string, resourceID string) NormalizeResult {
	description := CleanHTML(rec.Description)

	var objectives []string
	for _, q := range rec.LessonPlanQuestions {
		answer := CleanHTML(q.Answer)
		if q.Title != "" && answer != "" {
			objectives = append(objectives, q.Title+": "+answer)
		}
	}

	var files []string
	for _, f := range rec.Files {
		if f.Title == "" {
			continue
		}
		files = append(files, f.Title+": "+CleanHTML(f.Description))
	}

	title := rec.Title
	if title == "" {
		title = "Resource " + resourceID
	}

	embeddingSource := joinNonEmpty(" ",
		title,
		description,
		rec.GradeLevelNames,
		rec.SubjectAreaNames,
		rec.PrimaryICT,
	)
	fullText := joinNonEmpty(" ",
		embeddingSource,
		labeled("Accommodations", CleanHTML(rec.Accommodation)),
		labeled("Extensions", CleanHTML(rec.Extensions)),
		labeled("Further Recommendations", CleanHTML(rec.FurtherRecommendations)),
		labeled("Benchmark Ids", rec.BenchmarkIDs),
		labeled("Primary Resource ICT Id", rec.PrimaryResourceICTID.String()),
		labeled("Resource Type Id", rec.ResourceTypeID.String()),
	)

	doc := documentModel.Document{
		ID:            DocumentID(benchmarkID, resourceID),
		BenchmarkID:   benchmarkCSV(rec, benchmarkID),
		Title:         title,
		Description:   description,
		Type:          rec.PrimaryICT,
		Objectives:    strings.Join(objectives, " "),
		Materials:     CleanHTML(rec.SpecialMaterialsNeeded),
		Files:         strings.Join(files, ", "),
		Text:          fullText,
		Embedding:     n.generator.Generate(ctx, embeddingSource),
		GradeLevels:   rec.GradeLevelNames,
		SubjectAreas:  rec.SubjectAreaNames,
		Audience:      rec.IntendedAudienceNames,
		ResourceURL:   rec.ResourceURL,
		PublishedDate: rec.PublishedDate,
	}
	return NormalizeResult{Outcome: OutcomeOk, Doc: doc}
}

func (n *Normalizer) prepareFallback(ctx context.Context, rec resourceModel.FallbackResource, benchmarkID string, resourceID string) NormalizeResult {
	description := CleanHTML(rec.Description)
	title := rec.Title
	if title == "" {
		title = "Resource " + resourceID
	}

	embeddingSource := joinNonEmpty(" ", title, description)
	doc := documentModel.Document{
		ID:          DocumentID(benchmarkID, resourceID),
		BenchmarkID: benchmarkID,
		Title:       title,
		Description: description,
		Type:        rec.Type,
		Text:        embeddingSource,
		Embedding:   n.generator.Generate(ctx, embeddingSource),
	}
	return NormalizeResult{Outcome: OutcomeOk, Doc: doc}
}

// degrade builds the minimal document that still satisfies validation:
// identity fields, a truncated text blob and a zero vector.
func (n *Normalizer) degrade(record resourceModel.Record, benchmarkID string, resourceID string) NormalizeResult {
	title := "Resource " + resourceID
	text := title
	if fallback, ok := record.(resourceModel.FallbackResource); ok {
		if fallback.Title != "" {
			title = fallback.Title
		}
		text = truncate(joinNonEmpty(" ", title, fallback.Description), fallbackDescriptionLimit)
	}
	if structured, ok := record.(resourceModel.StructuredResource); ok {
		if structured.Title != "" {
			title = structured.Title
		}
		text = truncate(joinNonEmpty(" ", title, structured.Description), fallbackDescriptionLimit)
	}

	doc := documentModel.Document{
		ID:          DocumentID(benchmarkID, resourceID),
		BenchmarkID: benchmarkID,
		Title:       title,
		Type:        "lesson_plan",
		Text:        text,
		Embedding:   make([]float32, n.generator.Dimension()),
	}
	return NormalizeResult{Outcome: OutcomeDegraded, Doc: doc, Reason: "construction failure"}
}

// benchmarkCSV keeps every code the record names, with the primary first.
func benchmarkCSV(rec resourceModel.StructuredResource, primary string) string {
	codes := rec.BenchmarkCodes
	if codes == "" {
		codes = rec.BenchmarkIDs
	}
	var out []string
	seen := map[string]bool{primary: true}
	out = append(out, primary)
	for _, code := range strings.Split(codes, ",") {
		code = strings.TrimSpace(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return strings.Join(out, ",")
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func labeled(label string, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return label + ": " + value
}
