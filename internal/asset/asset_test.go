package asset

import "testing"

func TestLibraryLookup(t *testing.T) {
	lib := NewLibrary()
	lib.Add(Asset{ID: "a1", Kind: KindVideo, Locator: "a.mp4"})

	got, ok := lib.Lookup("a1")
	if !ok || got.Locator != "a.mp4" {
		t.Fatalf("Lookup(a1) = %+v, %v", got, ok)
	}
	if _, ok := lib.Lookup("nope"); ok {
		t.Fatal("unknown id should not resolve")
	}
	if lib.Len() != 1 {
		t.Fatalf("Len = %d", lib.Len())
	}
}

func TestSetDuration(t *testing.T) {
	lib := NewLibrary()
	lib.Add(Asset{ID: "a1", Kind: KindVideo, Locator: "a.mp4"})

	if !lib.SetDuration("a1", 8000) {
		t.Fatal("SetDuration should find the asset")
	}
	got, _ := lib.Lookup("a1")
	if !got.DurationKnown || got.DurationMs != 8000 {
		t.Fatalf("duration not recorded: %+v", got)
	}
	if lib.SetDuration("nope", 1000) {
		t.Fatal("unknown id should report false")
	}
}
