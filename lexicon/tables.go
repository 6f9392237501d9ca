package lexicon

// Detector lexicons. Loaded once at startup and never mutated.
var (
	MaleCoded = New("male_coded",
		"aggressive", "ambitious", "analytical", "assertive", "athletic",
		"competitive", "confident", "decisive", "determined", "independent",
		"leader", "logical", "objective", "outspoken", "persistent",
	)

	FemaleCoded = New("female_coded",
		"collaborative", "committed", "compassionate", "considerate", "cooperative",
		"dependable", "enthusiastic", "interpersonal", "loyal", "pleasant",
		"polite", "responsible", "sensitive", "supportive", "sympathetic",
		"trustworthy", "understanding",
	)

	Racial = New("racial",
		"urban", "articulate", "clean", "well-spoken", "exotic",
		"ethnic", "diverse", "minority", "disadvantaged", "inner-city",
	)

	Confirmation = New("confirmation",
		"obviously", "clearly", "everyone knows", "it's common sense",
		"without a doubt", "undeniably", "certainly", "definitely",
	)

	Loaded = New("loaded_language",
		"terrorist", "extremist", "radical", "fanatic", "militant",
		"thug", "criminal", "suspect", "alleged", "controversial",
	)
)

// Keyword categories for quick feed tagging. Matched on whole words.
var (
	Political = New("Political",
		"left-wing", "right-wing", "liberal", "conservative", "bjp", "congress", "modi", "rahul gandhi",
		"hindutva", "secular", "communal", "propaganda", "agenda", "nationalist", "fascist", "commie",
		"sanghi", "bhakt", "tukde tukde", "urban naxal", "islamist", "muslim appeasement", "anti-national",
		"patriot", "traitor", "dynasty", "godi media", "presstitute", "fake news", "mainstream media",
	)

	Religious = New("Religious",
		"hindu", "muslim", "christian", "islam", "temple", "mosque", "church", "communal", "religious",
		"minority", "majority", "dalit", "caste", "reservation", "conversion", "cow vigilante", "lynching",
	)

	LoadedKeywords = New("Loaded Language",
		"shocking", "outrage", "slam", "blast", "attack", "expose", "scam", "controversy", "uproar",
		"sensational", "alleged", "accused", "claimed", "reportedly", "sources say", "unverified",
		"massive", "huge", "unprecedented", "disaster", "crisis", "catastrophe", "disgrace", "failure",
	)

	GenderKeywords = New("Gender",
		"feminist", "patriarchy", "gender bias", "sexist", "misogynist", "womanizer", "eve-teasing",
		"molestation", "rape", "victim blaming", "empowerment", "glass ceiling",
	)
)

// QuickCategories lists the quick tagging categories in evaluation order
var QuickCategories = []*Lexicon{Political, Religious, LoadedKeywords, GenderKeywords}
