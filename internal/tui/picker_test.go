package tui

import "testing"

func TestRankCategoriesEmptyQueryKeepsOrder(t *testing.T) {
	names := []string{"Drinks", "Snacks", "Apparel"}
	got := rankCategories(names, "")
	for i, n := range names {
		if got[i] != n {
			t.Fatalf("order changed: %v", got)
		}
	}
}

func TestRankCategoriesSubstringFirst(t *testing.T) {
	got := rankCategories([]string{"Apparel", "Drinks", "Soft Drinks"}, "drink")
	if got[0] != "Drinks" && got[0] != "Soft Drinks" {
		t.Fatalf("substring matches must rank first, got %v", got)
	}
	if got[2] != "Apparel" {
		t.Fatalf("non-match must rank last, got %v", got)
	}
}

func TestRankCategoriesFuzzyTypo(t *testing.T) {
	got := rankCategories([]string{"Apparel", "Bakery", "Dairy"}, "bakrey")
	if got[0] != "Bakery" {
		t.Fatalf("closest edit distance must rank first, got %v", got)
	}
}

func TestRankCategoriesDoesNotMutateInput(t *testing.T) {
	names := []string{"Zebra", "Alpha"}
	rankCategories(names, "alpha")
	if names[0] != "Zebra" {
		t.Fatal("input slice mutated")
	}
}
