package ballot

// Tennessee returns the classic four-city example used to teach Ranked Pairs:
// voters choosing a state capital, each group voting for the city closest to
// them. Weights are percentages of the electorate.
func Tennessee() Set {
	return Set{
		Title: "Tennessee capital",
		Candidates: []Candidate{
			{Name: "Memphis", Short: "MEM"},
			{Name: "Nashville", Short: "NSH"},
			{Name: "Chattanooga", Short: "CHA"},
			{Name: "Knoxville", Short: "KNX"},
		},
		Groups: []Group{
			{Label: "Memphis voters", Weight: 42, Ranking: []int{1, 2, 3, 4}},
			{Label: "Nashville voters", Weight: 26, Ranking: []int{4, 1, 2, 3}},
			{Label: "Chattanooga voters", Weight: 15, Ranking: []int{4, 2, 1, 3}},
			{Label: "Knoxville voters", Weight: 17, Ranking: []int{4, 3, 2, 1}},
		},
	}
}
