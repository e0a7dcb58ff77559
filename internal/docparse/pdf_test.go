package docparse

import "testing"

func TestExtractTextRejectsEmptyPayload(t *testing.T) {
	extractor := NewPDFExtractor()
	if _, err := extractor.ExtractText(nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestExtractTextRejectsGarbage(t *testing.T) {
	extractor := NewPDFExtractor()
	if _, err := extractor.ExtractText([]byte("this is not a pdf")); err == nil {
		t.Fatal("expected error for non-pdf payload")
	}
}
