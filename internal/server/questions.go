package server

// QuestionSet groups practice prompts for one interview category.
type QuestionSet struct {
	Category  string   `json:"category"`
	Questions []string `json:"questions"`
}

// questionSets is the built-in bank of practice prompts.
var questionSets = []QuestionSet{
	{
		Category: "Behavioral / Fit",
		Questions: []string{
			"Tell me about yourself.",
			"Describe a time you handled conflict on a team.",
			"Why are you interested in this role?",
		},
	},
	{
		Category: "Technical - Computer Science (DSA / Coding)",
		Questions: []string{
			"Explain the time complexity of binary search.",
			"Walk through how you would detect a cycle in a linked list.",
			"Design an algorithm to find the top K frequent elements.",
		},
	},
	{
		Category: "Technical - Economics (Micro / Macro / Metrics)",
		Questions: []string{
			"Explain the difference between GDP and GNP.",
			"How does a price ceiling affect supply and demand?",
			"Describe what a p-value means in a regression.",
		},
	},
	{
		Category: "Case Interview",
		Questions: []string{
			"Estimate the annual market size for electric scooters in a city.",
			"A coffee chain's profits are down. How would you analyze it?",
			"How would you structure a market entry for a new fintech app?",
		},
	},
	{
		Category: "Quantitative / Math",
		Questions: []string{
			"Explain how you would model expected value for a simple gamble.",
			"If a fair coin is flipped 5 times, what is the probability of exactly 3 heads?",
			"How would you approximate sqrt(10) without a calculator?",
		},
	},
	{
		Category: "System Design",
		Questions: []string{
			"Design a URL shortener.",
			"Outline a scalable chat system.",
			"Design a notification system for a mobile app.",
		},
	},
}

// findQuestionSet returns the set for a category, or nil.
func findQuestionSet(category string) *QuestionSet {
	for i := range questionSets {
		if questionSets[i].Category == category {
			return &questionSets[i]
		}
	}
	return nil
}
