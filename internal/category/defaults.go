package category

// DefaultCategories is the Swedish policy table used when no categories are configured.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Bostäder", SeedTerms: []string{"bostäder", "bostad", "byggande", "bygger"}},
		{Name: "Polisen", SeedTerms: []string{"polis", "försvar", "brott", "kriminalitet"}},
		{Name: "Sjukvården", SeedTerms: []string{"sjukvård", "hälsa", "sjukhus", "välfärd", "välfärden"}},
	}
}

// Default returns the built-in table.
func Default() *Table { return MustNew(DefaultCategories()) }
