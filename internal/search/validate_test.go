package search

import (
	"math"
	"testing"

	"github.com/akolanti/LessonIndexer/internal/domain/documentModel"
)

func validDoc() documentModel.Document {
	return documentModel.Document{
		ID:          "MA_K_NSO_1_1_101",
		BenchmarkID: "MA.K.NSO.1.1",
		Title:       "Counting to 20",
		Embedding:   []float32{0.1, 0.2, 0.3, 0.4},
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*documentModel.Document)
		wantErr bool
	}{
		{"valid", func(d *documentModel.Document) {}, false},
		{"missing id", func(d *documentModel.Document) { d.ID = "" }, true},
		{"missing benchmark", func(d *documentModel.Document) { d.BenchmarkID = "" }, true},
		{"missing title", func(d *documentModel.Document) { d.Title = "" }, true},
		{"no embedding", func(d *documentModel.Document) { d.Embedding = nil }, true},
		{"wrong dimension", func(d *documentModel.Document) { d.Embedding = []float32{1, 2} }, true},
		{"NaN component", func(d *documentModel.Document) { d.Embedding[2] = float32(math.NaN()) }, true},
		{"Inf component", func(d *documentModel.Document) { d.Embedding[0] = float32(math.Inf(1)) }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := validDoc()
			tc.mutate(&doc)
			err := ValidateDocument(doc, 4)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateDocument() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestPayloadPrunesEmptyFields(t *testing.T) {
	doc := validDoc()
	doc.Description = ""
	doc.Objectives = "Objective: count"

	payload := doc.Payload()
	if _, present := payload["description"]; present {
		t.Error("empty description should be pruned from the payload")
	}
	if payload["objectives"] != "Objective: count" {
		t.Errorf("objectives = %v", payload["objectives"])
	}
	if _, present := payload["embedding"]; present {
		t.Error("the vector must not ride inside the payload")
	}
}
