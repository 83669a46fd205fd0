package question

import "github.com/quizdash/quizdash-backend/internal"

// fallbackQuestions keeps games playable when no external source responds.
var fallbackQuestions = []internal.Question{
	{
		Text:          "What is the capital of France?",
		Options:       []string{"Paris", "London", "Berlin", "Madrid"},
		CorrectAnswer: 0,
		Category:      "Geography",
		Difficulty:    internal.DifficultyEasy,
		Source:        "custom",
	},
	{
		Text:          "Which planet is known as the Red Planet?",
		Options:       []string{"Mars", "Venus", "Jupiter", "Saturn"},
		CorrectAnswer: 0,
		Category:      "Science",
		Difficulty:    internal.DifficultyEasy,
		Source:        "custom",
	},
	{
		Text:          "What is the largest mammal in the world?",
		Options:       []string{"Blue Whale", "African Elephant", "Giraffe", "Polar Bear"},
		CorrectAnswer: 0,
		Category:      "Science",
		Difficulty:    internal.DifficultyEasy,
		Source:        "custom",
	},
	{
		Text:          "Which programming language was created by Guido van Rossum?",
		Options:       []string{"Python", "Java", "C++", "JavaScript"},
		CorrectAnswer: 0,
		Category:      "Technology",
		Difficulty:    internal.DifficultyEasy,
		Source:        "custom",
	},
	{
		Text:          "What is the chemical symbol for gold?",
		Options:       []string{"Au", "Ag", "Fe", "Cu"},
		CorrectAnswer: 0,
		Category:      "Science",
		Difficulty:    internal.DifficultyEasy,
		Source:        "custom",
	},
}

// FallbackQuestions returns a fresh copy of the built-in question set.
func FallbackQuestions() []internal.Question {
	out := make([]internal.Question, len(fallbackQuestions))
	copy(out, fallbackQuestions)
	return out
}
