package feed

import (
	"testing"

	"commuter_bus/internal/models"
)

func TestRenumberContinuesAfterExistingSeq(t *testing.T) {
	stops := []models.Stop{{Title: "Secretariat"}, {Title: "Saddar"}}
	renumber(stops, 7)
	if stops[0].Seq != 8 || stops[1].Seq != 9 {
		t.Fatalf("appended stops must sort after the sheet, got seq %d and %d", stops[0].Seq, stops[1].Seq)
	}
}

func TestRenumberStartsReplacedSheetAtOne(t *testing.T) {
	stops := []models.Stop{{Title: "Secretariat", Seq: 42}}
	renumber(stops, 0)
	if stops[0].Seq != 1 {
		t.Fatalf("replaced sheet must start at seq 1, got %d", stops[0].Seq)
	}
}
