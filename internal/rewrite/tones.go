package rewrite

// DefaultTones is the built-in tone vocabulary offered by both front-ends.
// Free-form custom tones are accepted everywhere a tone is taken.
var DefaultTones = []string{
	"Neutral",
	"Suspenseful",
	"Inspiring",
	"Joyful",
	"Calm",
	"Dramatic",
	"Motivational",
	"Humorous",
	"Serious",
	"Urgent",
	"Formal",
	"Casual",
	"Friendly",
	"Authoritative",
	"Romantic",
	"Cinematic",
	"Narrative",
	"Empathetic",
}
