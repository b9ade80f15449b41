package resourceModel

import (
	"bytes"
	"encoding/json"
)

// FileLocator identifies one unit of work found during a container scan.
type FileLocator struct {
	Container   string
	Path        string
	BenchmarkID string
	ResourceID  string
}

// Key is the run-scoped deduplication key for a discovered file.
func (l FileLocator) Key() string {
	return l.Container + "::" + l.Path
}

// Record is the as-downloaded resource representation. Exactly two variants
// exist: StructuredResource for parsed JSON and FallbackResource for anything
// that could not be (or was never meant to be) parsed. The normalizer
// type-switches on the variant instead of probing fields.
type Record interface {
	resourceRecord()
}

type LessonPlanQuestion struct {
	Title  string `json:"Title"`
	Answer string `json:"ResLessPlanQuestionAnswer"`
}

type ResourceFile struct {
	Title       string `json:"FileTitle"`
	Description string `json:"FileDescription"`
}

// StructuredResource mirrors the upstream lesson-plan JSON shape.
type StructuredResource struct {
	Title                  string               `json:"Title"`
	Description            string               `json:"Description"`
	ResourceID             FlexString           `json:"ResourceId"`
	BenchmarkCodes         string               `json:"BenchmarkCodes"`
	BenchmarkIDs           string               `json:"BenchmarkIds"`
	LessonPlanQuestions    []LessonPlanQuestion `json:"LessonPlanQuestions"`
	Files                  []ResourceFile       `json:"Files"`
	GradeLevelNames        string               `json:"GradeLevelNames"`
	SubjectAreaNames       string               `json:"SubjectAreaNames"`
	IntendedAudienceNames  string               `json:"IntendedAudienceNames"`
	ResourceURL            string               `json:"ResourceUrl"`
	PublishedDate          string               `json:"PublishedDate"`
	PrimaryICT             string               `json:"PrimaryICT"`
	PrimaryResourceICTID   FlexString           `json:"PrimaryResourceICTId"`
	ResourceTypeID         FlexString           `json:"ResourceTypeId"`
	SpecialMaterialsNeeded string               `json:"SpecialMaterialsNeeded"`
	Accommodation          string               `json:"Accomodation"` //upstream key carries the typo
	Extensions             string               `json:"Extensions"`
	FurtherRecommendations string               `json:"FurtherRecommendations"`
}

func (StructuredResource) resourceRecord() {}

// FallbackResource is synthesized for non-JSON files and for JSON that fails
// to parse. It keeps the pipeline moving with identifier, title and raw text.
type FallbackResource struct {
	ResourceID  string
	Title       string
	Description string
	Type        string
}

func (FallbackResource) resourceRecord() {}

// FlexString decodes JSON strings and numbers alike; the upstream feed is
// inconsistent about whether ids are quoted.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }
