package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestDeriveSeedDeterministic verifies the seed derivation is a pure function
func TestDeriveSeedDeterministic(t *testing.T) {
	a := DeriveSeed(42, "control", 7)
	b := DeriveSeed(42, "control", 7)
	if a != b {
		t.Errorf("DeriveSeed not deterministic: %d != %d", a, b)
	}
}

// TestDeriveSeedSeparation verifies distinct coordinates give distinct streams
func TestDeriveSeedSeparation(t *testing.T) {
	base := Seed(42)
	seen := make(map[int64]string)

	record := func(seed int64, desc string) {
		if prev, ok := seen[seed]; ok {
			t.Errorf("seed collision between %s and %s", prev, desc)
		}
		seen[seed] = desc
	}

	for i := 0; i < 1000; i++ {
		record(DeriveSeed(base, "control", i), "control/"+string(rune(i)))
	}
	for i := 0; i < 1000; i++ {
		record(DeriveSeed(base, "patient", i), "patient/"+string(rune(i)))
	}
	record(DeriveSeed(base, "control", ObservedStreamID), "control/observed")
	record(DeriveSeed(base, "patient", ObservedStreamID), "patient/observed")

	if DeriveSeed(base, "control", 0) == DeriveSeed(base+1, "control", 0) {
		t.Error("different base seeds should give different streams")
	}
}
